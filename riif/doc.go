// Package riif reads and writes RIIF raster images.
//
// RIIF stores an 8-bit RGBA raster as a fixed header, one filter tag per
// row and a single zlib stream holding every filtered row:
//
//	offset 0          'R' 'I' 'I' 'F'
//	offset 4          width,  uint32 little-endian
//	offset 8          height, uint32 little-endian
//	offset 12         height bytes, filter tag of each row (0-4)
//	offset 12+height  zlib stream, inflates to width*height*4 bytes
//
// Each row is filtered with whichever of the five PNG predictors (None, Sub,
// Up, Average, Paeth) gives the smallest byte sum, with ties going to the
// lower tag. Encoding is deterministic: the same pixels always produce the
// same file for a given compression level.
//
// Importing this package registers the format with the image package, so
// image.Decode and image.DecodeConfig recognize RIIF data.
package riif
