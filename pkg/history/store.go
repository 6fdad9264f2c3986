package history

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Commit is one CIB push
type Commit struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Target  string    `json:"target"`
	Command string    `json:"command"`
	Digest  string    `json:"digest"`
	Size    int       `json:"size"`
	CIB     string    `json:"cib"`
}

// NewCommit describes a push of cib. ID and Time are filled by Record.
func NewCommit(target, command, cib string) *Commit {
	sum := sha256.Sum256([]byte(cib))
	return &Commit{
		Target:  target,
		Command: command,
		Digest:  hex.EncodeToString(sum[:]),
		Size:    len(cib),
		CIB:     cib,
	}
}

// Store keeps the journal of CIB commits
type Store interface {
	Record(commit *Commit) error
	List(limit int) ([]*Commit, error)
	Get(id string) (*Commit, error)
	Close() error
}
