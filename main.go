package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// Double-click launcher for the purchasing team: runs the batch OCR over
// input_images/ with all defaults and keeps the terminal open at the end so
// the printed summary can be read. Use cmd/procurement-ocr directly for flags.

const inputImagesDir = "input_images"

type launcher struct {
	out io.Writer
	in  io.Reader
	run func(imagesDir string) error
}

func main() {
	// anchor relative paths (input_images/, output/) next to the binary,
	// no matter where the launcher was invoked from
	if exe, err := os.Executable(); err == nil {
		if err := os.Chdir(filepath.Dir(exe)); err != nil {
			fmt.Fprintln(os.Stderr, "warning: could not enter launcher directory:", err)
		}
	}

	l := &launcher{out: os.Stdout, in: os.Stdin, run: runOCR}
	l.launch()
}

func (l *launcher) launch() {
	wd, _ := os.Getwd()
	fmt.Fprintf(l.out, "Working directory: %s\n", wd)

	exe, _ := os.Executable()
	fmt.Fprintf(l.out, "Using executable: %s\n", exe)

	fmt.Fprintf(l.out, "Running OCR over %s/ ...\n", inputImagesDir)

	if err := l.run(inputImagesDir); err != nil {
		// surfaced for the curious; the banner below prints either way
		fmt.Fprintf(l.out, "OCR run reported an error: %v\n", err)
	}

	fmt.Fprintln(l.out, "Done! OCR run finished.")
	fmt.Fprintln(l.out, "Results are in the output/ folder.")
	fmt.Fprint(l.out, "Press Enter to close this window...")
	bufio.NewReader(l.in).ReadString('\n')
}

func runOCR(imagesDir string) error {
	cmd := exec.Command("go", "run", "./cmd/procurement-ocr", "-images", imagesDir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}
