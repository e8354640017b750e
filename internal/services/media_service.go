package services

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/tower15/internal/helpers"
)

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, files []string, folder string) ([]string, error) {
	urls, _, err := helpers.UploadImages(ctx, u.cld, files, folder)
	return urls, err
}
