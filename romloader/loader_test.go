package romloader

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// testROM is a tiny but valid program: CLS then jump-to-self.
var testROM = []byte{0x00, 0xE0, 0x12, 0x02}

func createTestROMFile(t *testing.T, data []byte, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to create test ROM file: %v", err)
	}
	return path
}

func createTestZipFile(t *testing.T, romData []byte, romName string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zip")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	fw, err := w.Create(romName)
	if err != nil {
		t.Fatalf("Failed to create file in zip: %v", err)
	}
	if _, err := fw.Write(romData); err != nil {
		t.Fatalf("Failed to write to zip: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return path
}

func createTestGzipFile(t *testing.T, romData []byte, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create gzip file: %v", err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	if _, err := gw.Write(romData); err != nil {
		t.Fatalf("Failed to write gzip: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("Failed to close gzip: %v", err)
	}
	return path
}

func createTestTarGzFile(t *testing.T, romData []byte, romName string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tar.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create tar.gz file: %v", err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	if err := tw.WriteHeader(&tar.Header{
		Name:     romName,
		Typeflag: tar.TypeReg,
		Mode:     0644,
		Size:     int64(len(romData)),
	}); err != nil {
		t.Fatalf("Failed to write tar header: %v", err)
	}
	if _, err := tw.Write(romData); err != nil {
		t.Fatalf("Failed to write tar data: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close tar: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("Failed to close gzip: %v", err)
	}
	return path
}

func TestLoadRaw(t *testing.T) {
	for _, ext := range []string{".ch8", ".c8", ".rom", ".CH8"} {
		t.Run(ext, func(t *testing.T) {
			path := createTestROMFile(t, testROM, "game"+ext)

			data, name, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if string(data) != string(testROM) {
				t.Errorf("Load() data mismatch")
			}
			if name != "game"+ext {
				t.Errorf("Load() name = %q, want %q", name, "game"+ext)
			}
		})
	}
}

func TestLoadZip(t *testing.T) {
	path := createTestZipFile(t, testROM, "games/pong.ch8")

	data, name, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != string(testROM) {
		t.Errorf("Load() data mismatch")
	}
	if name != "pong.ch8" {
		t.Errorf("Load() name = %q, want %q", name, "pong.ch8")
	}
}

func TestLoadZipNoROM(t *testing.T) {
	path := createTestZipFile(t, testROM, "readme.txt")

	_, _, err := Load(path)
	if !errors.Is(err, ErrNoROMFile) {
		t.Errorf("Load() error = %v, want ErrNoROMFile", err)
	}
}

func TestLoadGzip(t *testing.T) {
	path := createTestGzipFile(t, testROM, "tetris.ch8")

	data, name, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != string(testROM) {
		t.Errorf("Load() data mismatch")
	}
	if name != "tetris.ch8" {
		t.Errorf("Load() name = %q, want %q", name, "tetris.ch8")
	}
}

func TestLoadTarGz(t *testing.T) {
	path := createTestTarGzFile(t, testROM, "roms/brix.ch8")

	data, name, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != string(testROM) {
		t.Errorf("Load() data mismatch")
	}
	if name != "brix.ch8" {
		t.Errorf("Load() name = %q, want %q", name, "brix.ch8")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := createTestROMFile(t, testROM, "game.bin")

	_, _, err := Load(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.ch8"))
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoadTooLarge(t *testing.T) {
	path := createTestROMFile(t, make([]byte, maxROMSize+1), "big.ch8")

	_, _, err := Load(path)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Load() error = %v, want ErrFileTooLarge", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		path   string
		want   formatType
	}{
		{"zip magic", []byte{0x50, 0x4B, 0x03, 0x04, 0x00}, "file.bin", formatZIP},
		{"7z magic", []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, "file.bin", format7z},
		{"gzip magic", []byte{0x1F, 0x8B, 0x08}, "file.bin", formatGzip},
		{"rar magic", []byte{0x52, 0x61, 0x72, 0x21, 0x1A}, "file.bin", formatRAR},
		{"zip extension", []byte{0x00, 0x01}, "file.zip", formatZIP},
		{"rom extension", []byte{0x00, 0xE0}, "file.ch8", formatRaw},
		{"unknown", []byte{0x00, 0x01}, "file.bin", formatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.header, tt.path); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}
