/*
 * json.go, part of polytop.
 *
 * Copyright 2025 The polytop authors
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

package chemjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rmera/polytop/poly"
)

//Compression is the compression applied to a document.
type Compression string

//Supported compressions.
const (
	None Compression = "none"
	Gzip Compression = "gzip"
	Zstd Compression = "zstd"
)

//ParseCompression returns the compression with the given name. The empty string is None.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(s)); c {
	case "", None:
		return None, nil
	case Gzip, Zstd:
		return c, nil
	default:
		return "", fmt.Errorf("chemjson: unknown compression %q", s)
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

//Document is the snapshot of a universe.
type Document struct {
	Molecules  map[string]*poly.Object `json:"molecules"`
	MolCounter int                     `json:"molCounter"`
}

//Names returns the names of the molecules in the document, sorted.
func (D *Document) Names() []string {
	ret := make([]string, 0, len(D.Molecules))
	for k := range D.Molecules {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//Encode writes D to out as JSON, with compression c.
func Encode(out io.Writer, D *Document, c Compression) error {
	var w io.WriteCloser
	var err error
	switch c {
	case "", None:
		w = nopCloser{out}
	case Gzip:
		w = gzip.NewWriter(out)
	case Zstd:
		w, err = zstd.NewWriter(out)
		if err != nil {
			return fmt.Errorf("chemjson.Encode: %w", err)
		}
	default:
		return fmt.Errorf("chemjson.Encode: unknown compression %q", c)
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(D); err != nil {
		w.Close()
		return fmt.Errorf("chemjson.Encode: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("chemjson.Encode: %w", err)
	}
	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

//Decode reads a document from in, which can be plain, gzip or zstd-compressed JSON.
func Decode(in io.Reader) (*Document, error) {
	br := bufio.NewReader(in)
	//short streams just give a short slice here, and fail to decode later.
	head, _ := br.Peek(len(zstdMagic))
	var r io.Reader = br
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("chemjson.Decode: %w", err)
		}
		defer gz.Close()
		r = gz
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("chemjson.Decode: %w", err)
		}
		defer zr.Close()
		r = zr
	}
	D := new(Document)
	if err := json.NewDecoder(r).Decode(D); err != nil {
		return nil, fmt.Errorf("chemjson.Decode: %w", err)
	}
	if D.Molecules == nil {
		D.Molecules = make(map[string]*poly.Object)
	}
	return D, nil
}

//Info summarizes a document, to be passed to other programs.
type Info struct {
	Molecules        int
	Names            []string
	AtomsPerMolecule []int
	Fragments        [][]string
	Charges          []float64 `json:",omitempty"`
}

//Send Marshals the info and writes it to out.
func (J *Info) Send(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(J); err != nil {
		return fmt.Errorf("chemjson.Info.Send: %w", err)
	}
	return nil
}
