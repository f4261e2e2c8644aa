// Package loader reads property files into ordered property maps.
//
// YAML, JSON and TOML are supported. Declaration order is kept for every
// format: YAML mapping order, JSON object order and TOML key order.
// Sequences and arrays become list-like property arrays.
package loader
