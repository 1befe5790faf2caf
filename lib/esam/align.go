//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"github.com/biogo/hts/sam"
)

const (
	MDDeletion = iota
	MDMismatch
	MDSkip
)

// ErrNoMismatchTag is returned for records with neither MD nor NM tag.
var ErrNoMismatchTag = errors.New("Missing MD and NM tags")

type TagMDOp struct {
	Op     int
	Length int
	Seq    []byte
}

// ParseTagMD parses the MD attribute to blocks.
func ParseTagMD(rawTag string) (blocks []TagMDOp, err error) {
	var block []byte
	var l byte
	i := 0
	for i < len(rawTag) {
		l = rawTag[i]
		if l == '^' {
			block = []byte("")
			i++ // Skipping "^"
			for i < len(rawTag) {
				l = rawTag[i]
				if unicode.IsLetter(rune(l)) {
					block = append(block, l)
					i++
				} else {
					break
				}
			}
			if len(block) == 0 {
				return blocks, fmt.Errorf("Empty deletion in MD tag %s", rawTag)
			}
			blocks = append(blocks, TagMDOp{Op: MDDeletion, Length: len(block), Seq: block})
		} else if unicode.IsLetter(rune(l)) {
			blocks = append(blocks, TagMDOp{Op: MDMismatch, Length: 1, Seq: []byte{l}})
			i++
		} else {
			block = []byte("")
			for i < len(rawTag) {
				l = rawTag[i]
				if unicode.IsNumber(rune(l)) {
					block = append(block, l)
					i++
				} else {
					break
				}
			}
			step, err := strconv.Atoi(string(block))
			if err != nil {
				return blocks, fmt.Errorf("Wrong MD tag %s: %w", rawTag, err)
			}
			if step > 0 {
				blocks = append(blocks, TagMDOp{Op: MDSkip, Length: step})
			}
		}
	}
	return blocks, nil
}

// Mismatches returns the number of mismatched bases of an alignment, from
// the MD tag if present or else from the NM tag.
func Mismatches(r *sam.Record) (int, error) {
	if tag, found := r.Tag([]byte("MD")); found {
		md, ok := tag.Value().(string)
		if !ok {
			return 0, fmt.Errorf("Wrong MD tag type in read %s", r.Name)
		}
		blocks, err := ParseTagMD(md)
		if err != nil {
			return 0, err
		}
		var n int
		for _, b := range blocks {
			if b.Op == MDMismatch {
				n++
			}
		}
		return n, nil
	}
	if tag, found := r.Tag([]byte("NM")); found {
		switch v := tag.Value().(type) {
		case uint8:
			return int(v), nil
		case int8:
			return int(v), nil
		case uint16:
			return int(v), nil
		case int16:
			return int(v), nil
		case uint32:
			return int(v), nil
		case int32:
			return int(v), nil
		}
		return 0, fmt.Errorf("Wrong NM tag type in read %s", r.Name)
	}
	return 0, ErrNoMismatchTag
}
