// Package export writes finished cards out of the editor: PNG or JPEG per
// side, and a PDF with one page per side at the card's physical size.
//
// Documents are 10 pixels per millimetre, so a side's page is
// Width/10 × Height/10 mm regardless of the raster scale used for the
// embedded image.
package export
