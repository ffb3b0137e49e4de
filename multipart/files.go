// multipart/files.go
package multipart

import (
	"image"
)

// File is a file-like value attached to an upload. The set of implementations is closed:
// Image, Images, FileRef and FileRefs.
type File interface {
	isFile()
}

// Image is a single in-memory image, sent JPEG encoded.
type Image struct {
	Image image.Image
}

// Images is a list of in-memory images. Each element becomes a part named "<key>[<index>]".
type Images []image.Image

// FileRef is the path of a file on disk whose bytes are sent as is.
type FileRef string

// FileRefs is a list of file paths. Each element becomes a part named "<key>[<index>]".
type FileRefs []string

func (Image) isFile()    {}
func (Images) isFile()   {}
func (FileRef) isFile()  {}
func (FileRefs) isFile() {}
