// Package domain holds the core collection types: accounts, settings,
// capabilities, policies and token assignments. It is free of storage and
// transport concerns so the engines can be tested against plain values.
package domain
