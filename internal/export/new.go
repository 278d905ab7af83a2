package export

import (
	"github.com/nguyentantai21042004/minutes-worker/internal/logger"
)

type implDocxExporter struct {
	dir    string
	logger logger.Logger
}

// NewDocx creates an Exporter that writes a summary and a transcript .docx per minutes record into dir.
func NewDocx(dir string, log logger.Logger) Exporter {
	return &implDocxExporter{
		dir:    dir,
		logger: log,
	}
}
