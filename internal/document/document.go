package document

// Document is a two-sided card.
type Document struct {
	Front Side
	Back  Side
}

// New returns an empty document with default front and back sides.
func New() Document {
	return Document{
		Front: NewSide("Front"),
		Back:  NewSide("Back"),
	}
}

// Side returns a pointer to the side named id. Unknown ids select the front.
func (d *Document) Side(id SideID) *Side {
	if id == Back {
		return &d.Back
	}
	return &d.Front
}

// Clone deep-copies both sides.
func (d Document) Clone() Document {
	return Document{Front: d.Front.Clone(), Back: d.Back.Clone()}
}

// Validate checks both sides.
func (d Document) Validate() error {
	if err := d.Front.Validate(); err != nil {
		return err
	}
	return d.Back.Validate()
}
