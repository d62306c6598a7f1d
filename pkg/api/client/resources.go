package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// Exhibition describes one trade fair.
type Exhibition struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Venue       string `json:"venue"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// ListExhibitions returns all exhibitions visible to the caller.
func (c *Client) ListExhibitions(ctx context.Context, token string) ([]Exhibition, error) {
	var exhibitions []Exhibition
	if err := c.do(ctx, http.MethodGet, "/exhibitions", nil, token, &exhibitions); err != nil {
		return nil, err
	}
	return exhibitions, nil
}

// GetExhibition fetches a single exhibition.
func (c *Client) GetExhibition(ctx context.Context, token string, id int64) (Exhibition, error) {
	var exhibition Exhibition
	path := fmt.Sprintf("/exhibitions/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, token, &exhibition); err != nil {
		return Exhibition{}, err
	}
	return exhibition, nil
}

// Exhibitor is a company registered for an exhibition.
type Exhibitor struct {
	ID           int64  `json:"id"`
	ExhibitionID int64  `json:"exhibitionId"`
	CompanyName  string `json:"companyName"`
	ContactName  string `json:"contactName,omitempty"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	BoothNumber  string `json:"boothNumber,omitempty"`
	Status       string `json:"status,omitempty"`
}

// ListExhibitors returns the exhibitors of one exhibition.
func (c *Client) ListExhibitors(ctx context.Context, token string, exhibitionID int64) ([]Exhibitor, error) {
	path := fmt.Sprintf("/exhibitions/%d/exhibitors", exhibitionID)
	var exhibitors []Exhibitor
	if err := c.do(ctx, http.MethodGet, path, nil, token, &exhibitors); err != nil {
		return nil, err
	}
	return exhibitors, nil
}

// GetExhibitor fetches a single exhibitor.
func (c *Client) GetExhibitor(ctx context.Context, token string, id int64) (Exhibitor, error) {
	var exhibitor Exhibitor
	path := fmt.Sprintf("/exhibitors/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, token, &exhibitor); err != nil {
		return Exhibitor{}, err
	}
	return exhibitor, nil
}

// CreateExhibitorInput captures the payload for exhibitor registration.
type CreateExhibitorInput struct {
	ExhibitionID int64  `json:"exhibitionId"`
	CompanyName  string `json:"companyName"`
	ContactName  string `json:"contactName,omitempty"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	BoothNumber  string `json:"boothNumber,omitempty"`
}

// CreateExhibitor registers a company for an exhibition.
func (c *Client) CreateExhibitor(ctx context.Context, token string, input CreateExhibitorInput) (Exhibitor, error) {
	var exhibitor Exhibitor
	if err := c.do(ctx, http.MethodPost, "/exhibitors", input, token, &exhibitor); err != nil {
		return Exhibitor{}, err
	}
	return exhibitor, nil
}

// UpdateExhibitor replaces the mutable fields of an exhibitor.
func (c *Client) UpdateExhibitor(ctx context.Context, token string, id int64, input CreateExhibitorInput) (Exhibitor, error) {
	var exhibitor Exhibitor
	path := fmt.Sprintf("/exhibitors/%d", id)
	if err := c.do(ctx, http.MethodPut, path, input, token, &exhibitor); err != nil {
		return Exhibitor{}, err
	}
	return exhibitor, nil
}

// DeleteExhibitor removes an exhibitor registration.
func (c *Client) DeleteExhibitor(ctx context.Context, token string, id int64) error {
	path := fmt.Sprintf("/exhibitors/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, token, nil)
}

// TradeEvent is a scheduled program item of an exhibition. EventDate is
// kept as the raw upstream string; schedule.DayKey normalizes it for
// day bucketing.
type TradeEvent struct {
	ID           int64  `json:"id"`
	ExhibitionID int64  `json:"exhibitionId"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	EventDate    string `json:"eventDate"`
	StartTime    string `json:"startTime,omitempty"`
	EndTime      string `json:"endTime,omitempty"`
	Location     string `json:"location,omitempty"`
}

// ListTradeEvents returns the schedule of one exhibition.
func (c *Client) ListTradeEvents(ctx context.Context, token string, exhibitionID int64) ([]TradeEvent, error) {
	path := fmt.Sprintf("/exhibitions/%d/events", exhibitionID)
	var events []TradeEvent
	if err := c.do(ctx, http.MethodGet, path, nil, token, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CreateTradeEventInput captures the payload for event creation.
type CreateTradeEventInput struct {
	ExhibitionID int64  `json:"exhibitionId"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	EventDate    string `json:"eventDate"`
	StartTime    string `json:"startTime,omitempty"`
	EndTime      string `json:"endTime,omitempty"`
	Location     string `json:"location,omitempty"`
}

// CreateTradeEvent adds a program item to the schedule.
func (c *Client) CreateTradeEvent(ctx context.Context, token string, input CreateTradeEventInput) (TradeEvent, error) {
	var event TradeEvent
	if err := c.do(ctx, http.MethodPost, "/events", input, token, &event); err != nil {
		return TradeEvent{}, err
	}
	return event, nil
}

// UpdateTradeEvent replaces a program item.
func (c *Client) UpdateTradeEvent(ctx context.Context, token string, id int64, input CreateTradeEventInput) (TradeEvent, error) {
	var event TradeEvent
	path := fmt.Sprintf("/events/%d", id)
	if err := c.do(ctx, http.MethodPut, path, input, token, &event); err != nil {
		return TradeEvent{}, err
	}
	return event, nil
}

// DeleteTradeEvent removes a program item.
func (c *Client) DeleteTradeEvent(ctx context.Context, token string, id int64) error {
	path := fmt.Sprintf("/events/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, token, nil)
}

// Document is a file attached to an exhibitor (contracts, branding).
type Document struct {
	ID          int64  `json:"id"`
	ExhibitorID int64  `json:"exhibitorId"`
	Name        string `json:"name"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
	UploadedAt  string `json:"uploadedAt,omitempty"`
}

// ListDocuments returns the documents of one exhibitor.
func (c *Client) ListDocuments(ctx context.Context, token string, exhibitorID int64) ([]Document, error) {
	path := fmt.Sprintf("/exhibitors/%d/documents", exhibitorID)
	var documents []Document
	if err := c.do(ctx, http.MethodGet, path, nil, token, &documents); err != nil {
		return nil, err
	}
	return documents, nil
}

// UploadDocument attaches a file to an exhibitor. The file is buffered
// so the multipart body can be rebuilt if the transport retries.
func (c *Client) UploadDocument(ctx context.Context, token string, exhibitorID int64, name, fileName string, file io.Reader) (Document, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("name", name); err != nil {
		return Document{}, fmt.Errorf("encode upload field: %w", err)
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return Document{}, fmt.Errorf("encode upload file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return Document{}, fmt.Errorf("read upload file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Document{}, fmt.Errorf("finalize upload body: %w", err)
	}

	path := fmt.Sprintf("/exhibitors/%d/documents", exhibitorID)
	payload := buf.Bytes()
	build := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())
		return req, nil
	}
	resp, err := c.roundTrip(ctx, http.MethodPost, path, token, build)
	if err != nil {
		return Document{}, err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp, true); err != nil {
		return Document{}, err
	}
	var doc Document
	if err := decodeJSON(resp.Body, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// DeleteDocument removes an attached file.
func (c *Client) DeleteDocument(ctx context.Context, token string, id int64) error {
	path := fmt.Sprintf("/documents/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, token, nil)
}

// Invitation is a guest invitation to an exhibition.
type Invitation struct {
	ID           int64  `json:"id"`
	ExhibitionID int64  `json:"exhibitionId"`
	Email        string `json:"email"`
	Status       string `json:"status,omitempty"`
	SentAt       string `json:"sentAt,omitempty"`
}

// ListInvitations returns the invitations of one exhibition. An optional
// status filters the result server-side.
func (c *Client) ListInvitations(ctx context.Context, token string, exhibitionID int64, status string) ([]Invitation, error) {
	path := fmt.Sprintf("/exhibitions/%d/invitations", exhibitionID)
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var invitations []Invitation
	if err := c.do(ctx, http.MethodGet, path, nil, token, &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}

// CreateInvitationInput captures the payload for sending an invitation.
type CreateInvitationInput struct {
	ExhibitionID int64  `json:"exhibitionId"`
	Email        string `json:"email"`
}

// CreateInvitation sends a guest invitation.
func (c *Client) CreateInvitation(ctx context.Context, token string, input CreateInvitationInput) (Invitation, error) {
	var invitation Invitation
	if err := c.do(ctx, http.MethodPost, "/invitations", input, token, &invitation); err != nil {
		return Invitation{}, err
	}
	return invitation, nil
}
