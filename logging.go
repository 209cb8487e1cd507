package ebml

import logging "github.com/ipfs/go-log/v2"

// log is this package's structured logger, following the same "one named
// SugaredLogger per package" convention go-log/v2 consumers use elsewhere
// in the pack; mkv carries its own instance (mkv/logging.go) rather than
// sharing this one. The core codec packages (vint, ebmlint, ids) stay
// logging-free: they are leaf utilities whose only outward signal is
// their error return.
var log = logging.Logger("ebml")
