package mkv

import (
	"github.com/ebmlio/container/ebml"
	"github.com/ebmlio/container/ebmlerr"
)

// AttachedFile is one named binary attachment (§9 supplemented feature:
// the original schema's Attachments element). A non-zero FileUID and
// non-empty FileData are required; Validate enforces both since the
// schema-driven Master engine only tracks presence, not value range.
type AttachedFile struct {
	*ebml.Master
	FileDescription *ebml.String `ebml:"467E"`
	FileName        *ebml.String `ebml:"466E,required"`
	FileMimeType    *ebml.String `ebml:"4660,required"`
	FileData        *ebml.Binary `ebml:"465C,required"`
	FileUID         *ebml.Uint   `ebml:"46AE,required"`
}

// NewAttachedFile builds an AttachedFile; call Validate before writing.
func NewAttachedFile(name, mimeType string, data []byte, uid uint64) *AttachedFile {
	a := &AttachedFile{}
	a.FileName, _ = ebml.NewString(FileNameID, name)
	a.FileMimeType, _ = ebml.NewString(FileMimeTypeID, mimeType)
	a.FileData, _ = ebml.NewBinary(FileDataID)
	a.FileData.Value = data
	a.FileUID, _ = ebml.NewUint(FileUIDID, uid)
	a.Init()
	return a
}

func (a *AttachedFile) Init() {
	a.Master, _ = ebml.NewMaster(AttachedFileID, a, false)
}

// Validate enforces the two invariants the schema alone can't express:
// a non-zero UID and non-empty file data.
func (a *AttachedFile) Validate() error {
	if a.FileUID == nil || a.FileUID.Value == 0 {
		return ebmlerr.New(ebmlerr.ValueOutOfRange, "id", FileUIDID)
	}
	if a.FileData == nil || len(a.FileData.Value) == 0 {
		return ebmlerr.New(ebmlerr.ValueSizeOutOfRange, "id", FileDataID)
	}
	return nil
}

// Attachments is the segment's optional list of named binary files.
type Attachments struct {
	*ebml.Master
	Files []*AttachedFile `ebml:"61A7"`
}

// NewAttachments builds an empty attachment list.
func NewAttachments() *Attachments {
	a := &Attachments{}
	a.Init()
	return a
}

func (a *Attachments) Init() {
	a.Master, _ = ebml.NewMaster(AttachmentsID, a, false)
}

// Add appends file after validating it.
func (a *Attachments) Add(file *AttachedFile) error {
	if err := file.Validate(); err != nil {
		return err
	}
	a.Files = append(a.Files, file)
	return nil
}
