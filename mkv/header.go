package mkv

import "github.com/ebmlio/container/ebml"

// Header is the EBML header (§6.1): the format dialect identification
// that precedes every segment. All seven children are required and are
// always emitted, even at their defaults.
type Header struct {
	*ebml.Master
	EBMLVersion        *ebml.Uint   `ebml:"4286,required"`
	EBMLReadVersion    *ebml.Uint   `ebml:"42F7,required"`
	EBMLMaxIDLength    *ebml.Uint   `ebml:"42F2,required"`
	EBMLMaxSizeLength  *ebml.Uint   `ebml:"42F3,required"`
	DocType            *ebml.String `ebml:"4282,required"`
	DocTypeVersion     *ebml.Uint   `ebml:"4287,required"`
	DocTypeReadVersion *ebml.Uint   `ebml:"4285,required"`
}

// NewHeader builds a Header for the given document type, with version
// fields at the conventional defaults (1, 1, IDs 4 bytes, sizes 8 bytes).
func NewHeader(docType string) *Header {
	h := &Header{}
	h.EBMLVersion, _ = ebml.NewUint(EBMLVersionID, 1)
	h.EBMLReadVersion, _ = ebml.NewUint(EBMLReadVersionID, 1)
	h.EBMLMaxIDLength, _ = ebml.NewUint(EBMLMaxIDLengthID, 4)
	h.EBMLMaxSizeLength, _ = ebml.NewUint(EBMLMaxSizeLengthID, 8)
	h.DocType, _ = ebml.NewString(DocTypeID, docType)
	h.DocTypeVersion, _ = ebml.NewUint(DocTypeVersionID, 1)
	h.DocTypeReadVersion, _ = ebml.NewUint(DocTypeReadVersionID, 1)
	h.Init()
	return h
}

// Init (re)binds the embedded Master to h; required by ebml.Initer so the
// schema-driven decoder can mint a Header on demand.
func (h *Header) Init() {
	h.Master, _ = ebml.NewMaster(HeaderID, h, false)
}
