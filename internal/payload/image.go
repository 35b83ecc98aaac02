package payload

import (
	"bytes"
	"fmt"

	"contentadmin/internal/models"

	"github.com/disintegration/imaging"
)

var imageFormats = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
}

// downscale уменьшает изображение, если его сторона больше maxDim.
// Не-изображения и файлы, которые не удалось декодировать, возвращаются как есть.
func downscale(f *models.File, maxDim int) (*models.File, error) {
	format, ok := imageFormats[f.ContentType]
	if maxDim <= 0 || !ok {
		return f, nil
	}
	img, err := imaging.Decode(bytes.NewReader(f.Data), imaging.AutoOrientation(true))
	if err != nil {
		return f, nil
	}
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return f, nil
	}

	resized := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, resized, format, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("кодирование изображения %s: %w", f.Name, err)
	}
	return &models.File{Name: f.Name, ContentType: f.ContentType, Data: buf.Bytes()}, nil
}
