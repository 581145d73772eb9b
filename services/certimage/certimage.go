// Package certimage draws printable certificate images.
package certimage

import (
	"fmt"
	"image/color"
	"io"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	width  = 1600
	height = 1130
)

// Data is what gets printed on a certificate.
type Data struct {
	CertificateID   string
	HolderName      string
	CourseTitle     string
	CompletionDate  time.Time
	IssuedAt        time.Time
	Score           *int
	VerificationURL string
}

var (
	fontsOnce sync.Once
	fontsErr  error
	regular   *truetype.Font
	bold      *truetype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		regular, fontsErr = truetype.Parse(goregular.TTF)
		if fontsErr != nil {
			return
		}
		bold, fontsErr = truetype.Parse(gobold.TTF)
	})
	return fontsErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

var (
	navy  = color.RGBA{R: 0x1E, G: 0x3A, B: 0x8A, A: 0xFF}
	gold  = color.RGBA{R: 0xC9, G: 0xA2, B: 0x27, A: 0xFF}
	ink   = color.RGBA{R: 0x1F, G: 0x29, B: 0x37, A: 0xFF}
	muted = color.RGBA{R: 0x6B, G: 0x72, B: 0x80, A: 0xFF}
)

// RenderPNG writes the certificate as a PNG image to w.
func RenderPNG(w io.Writer, d Data) error {
	if err := loadFonts(); err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	// borders
	dc.SetColor(navy)
	dc.SetLineWidth(18)
	dc.DrawRectangle(30, 30, width-60, height-60)
	dc.Stroke()
	dc.SetColor(gold)
	dc.SetLineWidth(4)
	dc.DrawRectangle(62, 62, width-124, height-124)
	dc.Stroke()

	cx := float64(width) / 2

	dc.SetFontFace(face(bold, 64))
	dc.SetColor(navy)
	dc.DrawStringAnchored("Certificate of Completion", cx, 230, 0.5, 0.5)

	dc.SetFontFace(face(regular, 30))
	dc.SetColor(muted)
	dc.DrawStringAnchored("This certifies that", cx, 350, 0.5, 0.5)

	dc.SetFontFace(face(bold, 72))
	dc.SetColor(ink)
	dc.DrawStringAnchored(d.HolderName, cx, 450, 0.5, 0.5)

	dc.SetColor(gold)
	dc.SetLineWidth(3)
	dc.DrawLine(cx-380, 510, cx+380, 510)
	dc.Stroke()

	dc.SetFontFace(face(regular, 30))
	dc.SetColor(muted)
	dc.DrawStringAnchored("has successfully completed the course", cx, 580, 0.5, 0.5)

	dc.SetFontFace(face(bold, 48))
	dc.SetColor(navy)
	dc.DrawStringWrapped(d.CourseTitle, cx, 680, 0.5, 0.5, width-360, 1.3, gg.AlignCenter)

	dc.SetFontFace(face(regular, 26))
	dc.SetColor(ink)
	details := "Completed on " + d.CompletionDate.Format("January 2, 2006")
	if d.Score != nil {
		details += fmt.Sprintf("  |  Score %d%%", *d.Score)
	}
	dc.DrawStringAnchored(details, cx, 820, 0.5, 0.5)

	dc.SetFontFace(face(regular, 22))
	dc.SetColor(muted)
	dc.DrawStringAnchored("Certificate ID: "+d.CertificateID, cx, 930, 0.5, 0.5)
	if d.VerificationURL != "" {
		dc.DrawStringAnchored("Verify at "+d.VerificationURL, cx, 970, 0.5, 0.5)
	}
	dc.DrawStringAnchored("Career Reach Hub  |  Issued "+d.IssuedAt.Format("2006-01-02"), cx, 1010, 0.5, 0.5)

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
