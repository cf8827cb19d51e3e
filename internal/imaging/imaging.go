// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

// Package imaging validates uploaded soil photos and converts them into the
// float32 NHWC tensor the soil classifier expects.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// MaxUploadBytes is the default upload limit (5 MiB).
const MaxUploadBytes = 5 * 1024 * 1024

// DefaultSize is the square edge length images are resized to.
const DefaultSize = 224

// Validation errors.
var (
	ErrTooLarge          = errors.New("file size exceeds upload limit")
	ErrUnsupportedFormat = errors.New("unsupported image format, expected JPEG or PNG")
	ErrDecode            = errors.New("image could not be decoded")
)

// Format is a detected image container.
type Format string

// Supported formats.
const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
)

// Tensor is a dense float32 tensor in NHWC layout.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// LimitError wraps ErrTooLarge with the limit that was exceeded.
func LimitError(maxBytes int64) error {
	return fmt.Errorf("%w of %d bytes", ErrTooLarge, maxBytes)
}

// Validate checks size against maxBytes (MaxUploadBytes when <= 0) and
// sniffs the format from header, which should hold the first bytes of the file.
func Validate(header []byte, size, maxBytes int64) (Format, error) {
	if maxBytes <= 0 {
		maxBytes = MaxUploadBytes
	}
	if size > maxBytes {
		return "", LimitError(maxBytes)
	}
	switch {
	case bytes.HasPrefix(header, jpegMagic):
		return FormatJPEG, nil
	case bytes.HasPrefix(header, pngMagic):
		return FormatPNG, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Decode sniffs and decodes a JPEG or PNG image from data.
func Decode(data []byte, maxBytes int64) (image.Image, error) {
	format, err := Validate(data, int64(len(data)), maxBytes)
	if err != nil {
		return nil, err
	}
	var img image.Image
	switch format {
	case FormatJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
	case FormatPNG:
		img, err = png.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, nil
}

// Preprocess decodes r and returns a [1, size, size, 3] tensor with RGB
// channels scaled to [0, 1]. A size <= 0 uses DefaultSize.
func Preprocess(r io.Reader, size int, maxBytes int64) (Tensor, error) {
	if maxBytes <= 0 {
		maxBytes = MaxUploadBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return Tensor{}, fmt.Errorf("read image: %w", err)
	}
	img, err := Decode(data, maxBytes)
	if err != nil {
		return Tensor{}, err
	}
	return FromImage(img, size), nil
}

// FromImage resizes img with bilinear interpolation and flattens it into
// an NHWC tensor. Alpha is dropped.
func FromImage(img image.Image, size int) Tensor {
	if size <= 0 {
		size = DefaultSize
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	data := make([]float32, size*size*3)
	i := 0
	for y := 0; y < size; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+size*4]
		for x := 0; x < size; x++ {
			px := row[x*4 : x*4+3]
			data[i] = float32(px[0]) / 255
			data[i+1] = float32(px[1]) / 255
			data[i+2] = float32(px[2]) / 255
			i += 3
		}
	}

	return Tensor{
		Shape: []int64{1, int64(size), int64(size), 3},
		Data:  data,
	}
}
