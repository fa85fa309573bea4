// Package project is the portable form of a card document.
//
// A project is a JSON object holding both sides of the card:
//
//	{
//	  "version": "1.0",
//	  "timestamp": "2024-01-01T00:00:00Z",
//	  "currentSide": "front",
//	  "front": {"name": "Front", "shapes": [...], "canvasSettings": {...}},
//	  "back":  {"name": "Back",  "shapes": [...], "canvasSettings": {...}}
//	}
//
// Encode and Decode are inverses: decoding an encoded project reproduces the
// same shape ids, positions, payloads and canvas settings on both sides.
//
// Decode also accepts the older single-sided layout
// ({"shapes": [...], "canvasSettings": {...}, "version": "1.0"}), which
// loads into the front side.
//
// Imported JSON is checked against an embedded CUE schema before it is
// decoded. Every rejection is a failure.Malformed error; nothing is
// partially applied.
package project
