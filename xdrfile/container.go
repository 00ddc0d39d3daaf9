/*
 * container.go, part of goxtc.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package xdrfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// DefaultBufferSize is the read buffer used when none is requested.
const DefaultBufferSize = 64 * 1024

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// container is the (possibly decompressed) byte stream of a trajectory
// file, together with everything that needs closing.
type container struct {
	io.Reader
	f   *os.File
	dec io.Closer
}

// Close closes the decompressor, if any, and then the file.
func (c *container) Close() error {
	var err error
	if c.dec != nil {
		err = c.dec.Close()
		c.dec = nil
	}
	if c.f != nil {
		if ferr := c.f.Close(); err == nil {
			err = ferr
		}
		c.f = nil
	}
	return err
}

// zstdCloser lets a *zstd.Decoder, whose Close returns nothing,
// be used as an io.Closer.
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// formatOf normalizes a container format name. Unknown names
// are logged and treated as plain XTC.
func formatOf(format, filename string) string {
	switch f := strings.ToLower(strings.TrimPrefix(format, ".")); f {
	case "":
		return ""
	case "xtc":
		return "xtc"
	case "gz", "gzip":
		return "gz"
	case "zst", "zstd":
		return "zst"
	default:
		log.Printf("Format string %s not supported. %s will be assumed to be a plain XTC file", format, filename)
		return "xtc"
	}
}

// sniff guesses the container format from the first bytes of the file.
func sniff(r *bufio.Reader) string {
	head, _ := r.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return "zst"
	case bytes.HasPrefix(head, gzipMagic):
		return "gz"
	default:
		return "xtc"
	}
}

// openContainer opens the file at path and returns a reader that yields
// plain XTC data, decompressing it if needed. format is as in GoCodec.
func openContainer(path, format string, bufsize int) (*container, error) {
	if bufsize <= 0 {
		bufsize = DefaultBufferSize
	}
	f, err := os.Open(path)
	if err != nil {
		code := ExdrFileNotFound
		if !os.IsNotExist(err) {
			code = ExdrHeader
		}
		return nil, &DecodeError{Code: code, Detail: path, Err: err}
	}
	c := &container{f: f}
	br := bufio.NewReaderSize(f, bufsize)
	kind := formatOf(format, path)
	if kind == "" {
		kind = sniff(br)
	}
	switch kind {
	case "gz":
		gz, err := gzip.NewReader(br)
		if err != nil {
			c.Close()
			return nil, &DecodeError{Code: ExdrHeader, Detail: fmt.Sprintf("gzip stream in %s", path), Err: err}
		}
		c.Reader, c.dec = gz, gz
	case "zst":
		zd, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			c.Close()
			return nil, &DecodeError{Code: ExdrHeader, Detail: fmt.Sprintf("zstd stream in %s", path), Err: err}
		}
		c.Reader, c.dec = zd, zstdCloser{zd}
	default:
		c.Reader = br
	}
	return c, nil
}
