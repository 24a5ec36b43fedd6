package tasks

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/akyairhashvil/taskwatch/internal/models"
)

// ErrUnrecognizedName is returned when a task name does not carry the
// source/destination layout needed to resubmit it.
var ErrUnrecognizedName = errors.New("task name does not describe a copy")

// copyNamePattern matches names of the form
//
//	copy [<src mount>](<src dir>/<file>) to [<dst mount>](<dst dir>)
//
// The task system does not expose the original request, so this is the only
// way to rebuild it.
var copyNamePattern = regexp.MustCompile(`.*\[(.*)\]\((.*)/(.*)\).*\[(.*)\]\((.*)\).*`)

// ParseCopyName rebuilds the copy request encoded in a task name.
func ParseCopyName(name string) (models.CopyRequest, error) {
	m := copyNamePattern.FindStringSubmatch(name)
	if m == nil {
		return models.CopyRequest{}, fmt.Errorf("%w: %q", ErrUnrecognizedName, name)
	}
	req := models.CopyRequest{
		SrcDir: m[1] + m[2],
		DstDir: m[4] + m[5],
		Names:  []string{m[3]},
	}
	if req.Names[0] == "" || req.SrcDir == "" || req.DstDir == "" {
		return models.CopyRequest{}, fmt.Errorf("%w: %q", ErrUnrecognizedName, name)
	}
	return req, nil
}
