package integration

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"testing"

	"github.com/zoobzio/stego"
	_ "github.com/zoobzio/stego/bmp"
	_ "github.com/zoobzio/stego/jpeg"
	_ "github.com/zoobzio/stego/png"
	stegotest "github.com/zoobzio/stego/testing"
	_ "github.com/zoobzio/stego/tiff"
)

func TestProcessor_HideReveal_PNG(t *testing.T) {
	testHideReveal(t, "png")
}

func TestProcessor_HideReveal_BMP(t *testing.T) {
	testHideReveal(t, "bmp")
}

func TestProcessor_HideReveal_TIFF(t *testing.T) {
	testHideReveal(t, "tiff")
}

func testHideReveal(t *testing.T, name string) {
	t.Helper()
	proc := stegotest.Processor(t, name)
	src := stegotest.PNG(t, stegotest.Gradient(40, 30))

	var out bytes.Buffer
	if err := proc.Hide(context.Background(), bytes.NewReader(src), &out, stegotest.TestPayload); err != nil {
		t.Fatalf("Hide error: %v", err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("DecodeConfig error: %v", err)
	}
	if format != name {
		t.Errorf("output format = %q, want %q", format, name)
	}

	got, err := proc.Reveal(context.Background(), bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("Reveal error: %v", err)
	}
	if got != stegotest.TestPayload {
		t.Errorf("Reveal = %q, want %q", got, stegotest.TestPayload)
	}
}

// Carriers are re-encoded, so the source format does not matter.
func TestProcessor_AcrossFormats(t *testing.T) {
	for _, in := range []string{"png", "bmp", "tiff"} {
		for _, out := range []string{"png", "bmp", "tiff"} {
			t.Run(in+"_to_"+out, func(t *testing.T) {
				var src bytes.Buffer
				if err := stego.MustLookup(in).Encode(&src, stegotest.Gradient(16, 16)); err != nil {
					t.Fatalf("encode %s carrier: %v", in, err)
				}

				proc := stegotest.Processor(t, out)
				var dst bytes.Buffer
				if err := proc.Hide(context.Background(), &src, &dst, "café"); err != nil {
					t.Fatalf("Hide error: %v", err)
				}

				got, err := proc.Reveal(context.Background(), &dst)
				if err != nil {
					t.Fatalf("Reveal error: %v", err)
				}
				if got != "café" {
					t.Errorf("Reveal = %q, want %q", got, "café")
				}
			})
		}
	}
}

func TestProcessor_PalettedCarrier(t *testing.T) {
	proc := stegotest.Processor(t, "png")
	src := stegotest.PNG(t, stegotest.Paletted(20, 20))

	var out bytes.Buffer
	if err := proc.Hide(context.Background(), bytes.NewReader(src), &out, stegotest.TestPayload); err != nil {
		t.Fatalf("Hide error: %v", err)
	}
	got, err := proc.Reveal(context.Background(), &out)
	if err != nil {
		t.Fatalf("Reveal error: %v", err)
	}
	if got != stegotest.TestPayload {
		t.Errorf("Reveal = %q, want %q", got, stegotest.TestPayload)
	}
}

func TestProcessor_JPEGCarrierInput(t *testing.T) {
	var src bytes.Buffer
	if err := jpeg.Encode(&src, stegotest.Gradient(32, 32), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}

	proc := stegotest.Processor(t, "png")
	var out bytes.Buffer
	if err := proc.Hide(context.Background(), &src, &out, stegotest.TestPayload); err != nil {
		t.Fatalf("Hide error: %v", err)
	}
	got, err := proc.Reveal(context.Background(), &out)
	if err != nil {
		t.Fatalf("Reveal error: %v", err)
	}
	if got != stegotest.TestPayload {
		t.Errorf("Reveal = %q, want %q", got, stegotest.TestPayload)
	}
}

func TestProcessor_JPEGOutputRejected(t *testing.T) {
	_, err := stego.NewProcessor(stego.MustLookup("jpeg"))
	if !errors.Is(err, stego.ErrLossyFormat) {
		t.Errorf("NewProcessor(jpeg) error = %v, want ErrLossyFormat", err)
	}
}

// Lossy re-encoding of an output carrier destroys the payload.
func TestProcessor_JPEGRecompressionLosesMessage(t *testing.T) {
	proc := stegotest.Processor(t, "png")
	src := stegotest.PNG(t, stegotest.Gradient(32, 32))

	var out bytes.Buffer
	if err := proc.Hide(context.Background(), bytes.NewReader(src), &out, stegotest.TestPayload); err != nil {
		t.Fatalf("Hide error: %v", err)
	}

	img, _, err := image.Decode(&out)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	var recompressed bytes.Buffer
	if err := jpeg.Encode(&recompressed, img, &jpeg.Options{Quality: 75}); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}

	got, err := proc.Reveal(context.Background(), &recompressed)
	if err == nil && got == stegotest.TestPayload {
		t.Error("payload should not survive JPEG recompression")
	}
}
