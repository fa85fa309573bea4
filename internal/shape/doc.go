// Package shape defines the drawable primitives placed on an ID card side.
//
// A Shape carries the attributes every primitive shares (position, size,
// rotation, opacity, visibility, lock state and paint order) plus a Props
// payload selected by its Kind. Props is a closed set: consumers switch over
// the concrete payload types and the compiler-visible list below is the
// complete union:
//
//   - KindRect     → *RectProps
//   - KindCircle   → *CircleProps
//   - KindText     → *TextProps
//   - KindTriangle → *TriangleProps
//   - KindImage    → *ImageProps
//   - KindPerson   → *PersonProps
//   - KindQR       → *QRProps
//   - KindBarcode  → *BarcodeProps
//
// All geometry in this package works on the unrotated bounding box in
// document pixel space. Functions are pure and never touch shared state.
package shape
