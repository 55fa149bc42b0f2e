package card

// PrintBatchRequest selects the members whose cards go on one print sheet
type PrintBatchRequest struct {
	MemberIDs []int64 `json:"member_ids" validate:"required,min=1,dive,gt=0"`
}

// CardResponse carries everything a card layout needs
type CardResponse struct {
	ID              int64   `json:"id"`
	UID             string  `json:"uid"`
	MemberID        int64   `json:"member_id"`
	FirstName       string  `json:"first_name,omitempty"`
	LastName        string  `json:"last_name,omitempty"`
	CardNumber      string  `json:"card_number,omitempty"`
	NationalID      string  `json:"national_id,omitempty"`
	Field           string  `json:"field,omitempty"`
	Track           string  `json:"track,omitempty"`
	PhotoPath       *string `json:"photo_path,omitempty"`
	AssociationName string  `json:"association_name,omitempty"`
	GeneratedAt     string  `json:"generated_at"`
	IsPrinted       bool    `json:"is_printed"`
	PrintedAt       *string `json:"printed_at,omitempty"`
}

// GetOrCreateResponse reports whether the card was created by the call
type GetOrCreateResponse struct {
	Card    *CardResponse `json:"card"`
	Created bool          `json:"created"`
}

// ToResponse converts a Card model to a CardResponse DTO
func (c *Card) ToResponse() *CardResponse {
	resp := &CardResponse{
		ID:          c.ID,
		UID:         c.UID.String(),
		MemberID:    c.MemberID,
		GeneratedAt: c.GeneratedAt.Format("2006-01-02T15:04:05Z"),
		IsPrinted:   c.IsPrinted,
	}
	if c.PrintedAt != nil {
		s := c.PrintedAt.Format("2006-01-02T15:04:05Z")
		resp.PrintedAt = &s
	}
	if m := c.Member; m != nil {
		resp.FirstName = m.FirstName
		resp.LastName = m.LastName
		resp.CardNumber = m.CardNumber
		resp.NationalID = m.NationalID
		resp.Field = m.Field
		resp.Track = m.Track
		resp.PhotoPath = m.PhotoPath
		if m.Association != nil {
			resp.AssociationName = m.Association.Name
		}
	}
	return resp
}
