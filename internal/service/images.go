package service

import "mime/multipart"

// Blob folders for the image-bearing record kinds.
const (
	studentImageFolder = "image/students"
	authorImageFolder  = "image/authors"
	bookImageFolder    = "image/books"
)

// imageStore abstracts the blob store used for uploaded record images.
type imageStore interface {
	SaveImage(folder string, file *multipart.FileHeader) (string, error)
	DeleteImage(folder, name string) error
}

// imagePolicy validates an upload before it is stored.
type imagePolicy interface {
	Validate(file *multipart.FileHeader) error
}
