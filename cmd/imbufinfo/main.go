// Command imbufinfo loads a PNG file into an image buffer and prints its
// dimensions, validity flags, memory footprint and mipmap chain.
//
// Usage:
//
//	imbufinfo [-mipmaps] file.png
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"github.com/feilipingmian/imbuf/imbuf"
)

func main() {
	mipmaps := flag.Bool("mipmaps", false, "generate and report the mipmap chain")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: imbufinfo [-mipmaps] [-v] file.png")
		os.Exit(2)
	}
	if *verbose {
		imbuf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	if err := run(flag.Arg(0), *mipmaps); err != nil {
		fmt.Fprintln(os.Stderr, "imbufinfo:", err)
		os.Exit(1)
	}
}

func run(path string, mipmaps bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	ibuf, err := imbuf.FromImage(img)
	if err != nil {
		return fmt.Errorf("wrap %s: %w", path, err)
	}
	defer ibuf.Free()

	ibuf.SetFilePath(path)

	if mipmaps {
		if err := ibuf.MakeMipmaps(); err != nil {
			return fmt.Errorf("mipmaps: %w", err)
		}
	}

	fmt.Printf("%s: %dx%d, %d channels, flags %#x\n",
		path, ibuf.Width(), ibuf.Height(), ibuf.Channels(), ibuf.Flags())
	fmt.Printf("pixels: %d, in memory: %d bytes\n", ibuf.RectLen(), ibuf.SizeInMemory())

	for i := 0; i < ibuf.MipmapCount(); i++ {
		level := ibuf.MipmapLevel(i)
		fmt.Printf("mip %2d: %dx%d\n", i, level.Width(), level.Height())
	}
	return nil
}
