package mkv

import logging "github.com/ipfs/go-log/v2"

// log is this package's structured logger, named distinctly from the
// root ebml package's so a caller can tune verbosity per layer.
var log = logging.Logger("ebml/mkv")
