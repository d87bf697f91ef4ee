package domain

import (
	"strings"
	"testing"
	"time"
)

func validImage() *Image {
	return &Image{
		OwnerID:     "u1",
		OwnerName:   "alice",
		Caption:     "Sunset",
		Description: "A sunset over the bay",
		DateTaken:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Valid:       true,
		Approved:    true,
	}
}

func TestImage_Validate_OK(t *testing.T) {
	if err := validImage().Validate(); err != nil {
		t.Fatalf("Validate failed for valid image: %v", err)
	}
}

func TestImage_Validate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Image)
		field  string
	}{
		{"missing owner", func(i *Image) { i.OwnerID = "" }, "ownerId"},
		{"missing caption", func(i *Image) { i.Caption = "  " }, "caption"},
		{"caption too long", func(i *Image) { i.Caption = strings.Repeat("x", 41) }, "caption"},
		{"missing description", func(i *Image) { i.Description = "" }, "description"},
		{"description too long", func(i *Image) { i.Description = strings.Repeat("x", 201) }, "description"},
		{"missing date", func(i *Image) { i.DateTaken = time.Time{} }, "dateTaken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := validImage()
			tt.mutate(img)

			err := img.Validate()
			if err == nil {
				t.Fatal("Validate succeeded, want error")
			}

			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestImage_Validate_BoundaryLengths(t *testing.T) {
	img := validImage()
	img.Caption = strings.Repeat("c", MaxCaptionLength)
	img.Description = strings.Repeat("d", MaxDescriptionLength)

	if err := img.Validate(); err != nil {
		t.Fatalf("Validate failed at boundary lengths: %v", err)
	}
}

func TestImage_Visible(t *testing.T) {
	img := validImage()
	if !img.Visible() {
		t.Error("valid && approved image should be visible")
	}

	img.Valid = false
	if img.Visible() {
		t.Error("invalid image should not be visible")
	}

	img.Valid = true
	img.Approved = false
	if img.Visible() {
		t.Error("unapproved image should not be visible")
	}
}

func TestBlobObjectName(t *testing.T) {
	got := BlobObjectName("abc-123")
	want := "image-abc-123.jpg"
	if got != want {
		t.Errorf("BlobObjectName = %q, want %q", got, want)
	}

	// Name depends only on the image id, never the owner.
	if BlobObjectName("abc-123") != got {
		t.Error("BlobObjectName is not deterministic")
	}
}
