package main

import (
	"encoding/json"
	"github.com/p7r0x7/hellman"
	"os"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// report is what --json prints and --output writes. It describes a run, never a table.
type report struct {
	Mode       int             `json:"mode"`
	Hash       string          `json:"hash"`
	Bits       int             `json:"bits"`
	Width      int             `json:"width"`
	Tables     int             `json:"tables"`
	SharedMask bool            `json:"shared_mask"`
	Trial      *trialReport    `json:"trial,omitempty"`
	Stats      []hellman.Stats `json:"stats,omitempty"`
}

type trialReport struct {
	Plaintext       string `json:"plaintext"`
	Digest          string `json:"digest"`
	Candidate       string `json:"candidate,omitempty"`
	CandidateDigest string `json:"candidate_digest,omitempty"`
	Found           bool   `json:"found"`
	Table           int    `json:"table"`
	Depth           int    `json:"depth"`
	Alarms          int    `json:"false_alarms"`
	Precomp         string `json:"precompute"`
	Search          string `json:"search"`
}

func (r report) write(path string) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
