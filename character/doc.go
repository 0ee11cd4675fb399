// Package character holds the in-memory model of an editable character: its
// tileset, illustrations, animations, hit and hurt boxes and color swaps.
//
// Documents are loaded with Import and written with Export. Every node kind
// carries a type tag in its serialized form; unknown tags are rejected on
// load. Clone produces structurally independent copies which share no
// slices or pointers with the original.
package character
