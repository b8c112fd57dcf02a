// Package ir provides the value model shared by both jsonx codecs.
//
// This package contains the value types, the closed tag set and the tagged
// tree Node. All other internal packages import ir; ir imports nothing
// internal. This keeps the model the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - Every supported value maps to exactly one Category (see Classify) and
//     every Category maps to exactly one Tag
//   - Object-like values are pointers; pointer identity is what the reference
//     protocol tracks
//   - Numbers are float64; NaN and ±Infinity travel as the sentinel strings
//     "NaN", "Infinity" and "-Infinity"
//   - Big integers and 64-bit buffer elements travel as decimal strings
//   - Absent (Undefined) and null (Null or Go nil) are distinct values
package ir
