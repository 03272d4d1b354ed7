// Package ioutils provides file system and image processing utilities.
//
// # File Operations
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/music/Artist")
//
//	// Write data to file
//	err := ioutils.WriteFile("/music/Artist/Artist_cover.jpg", data)
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//
//	// Convert to JPEG (covers are always saved as .jpg)
//	jpg, _ := svc.ConvertToJPEG(pngData)
//
//	// Resize image to fit within 1000x1000
//	resized, _ := svc.ResizeImage(imageData, 1000, 1000)
package ioutils
