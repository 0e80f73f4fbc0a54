package api

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"

	"github.com/eventra/gateway/core"
)

// Export formats accepted by the platform API.
const (
	ExportCSV = "csv"
	ExportPDF = "pdf"
)

var exportContentTypes = map[string]string{
	ExportCSV: "text/csv",
	ExportPDF: "application/pdf",
}

// ExportTeams fetches the CSV or PDF registration export for an event. The
// body is not buffered; the caller streams it to the browser and closes it.
func (c *Client) ExportTeams(ctx context.Context, token, eventID, format string) (*core.Export, error) {
	fallbackType, ok := exportContentTypes[format]
	if !ok {
		return nil, &core.APIError{Status: http.StatusBadRequest, Message: "unknown export format " + format}
	}

	path := fmt.Sprintf("/api/events/%s/export?format=%s", url.PathEscape(eventID), format)
	resp, err := c.send(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	if err := interpretStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = fallbackType
	}

	return &core.Export{
		ContentType: contentType,
		Filename:    exportFilename(resp.Header.Get("Content-Disposition"), eventID, format),
		Body:        resp.Body,
	}, nil
}

func exportFilename(disposition, eventID, format string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return fmt.Sprintf("event-%s-teams.%s", eventID, format)
}
