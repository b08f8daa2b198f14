package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ============================================================
// TOOLBAR (one-shot lookups, no state kept between calls)
// ============================================================

type lookupText struct {
	all         string
	allFailed   string
	idRequired  string
	byIDTitle   string
	byIDMissing string
}

var lookups = map[string]lookupText{
	"patients": {
		all:         "All Patients",
		allFailed:   "Failed to fetch patients",
		idRequired:  "Enter a Patient ID",
		byIDTitle:   "Patient Details",
		byIDMissing: "Patient not found",
	},
	"doctors": {
		all:         "All Doctors",
		allFailed:   "Failed to fetch doctors",
		idRequired:  "Enter a Doctor ID",
		byIDTitle:   "Doctor Details",
		byIDMissing: "Doctor not found",
	},
	"mappings": {
		all:         "All Mappings",
		allFailed:   "Failed to fetch mappings",
		idRequired:  "Enter a Patient ID",
		byIDMissing: "No mappings found",
	},
}

type Toolbar struct {
	api *APIClient
}

func NewToolbar(api *APIClient) *Toolbar {
	return &Toolbar{api: api}
}

// Lookup fetches every record of resource, or one by id. For mappings the id
// is a patient id and the result lists that patient's doctors.
func (t *Toolbar) Lookup(ctx context.Context, resource, id string, byID bool) (*DetailPanel, error) {
	text, ok := lookups[resource]
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}

	if !byID {
		path := "/" + resource + "/"
		res, err := t.api.Do(ctx, "GET", path, nil)
		if err != nil {
			return nil, err
		}
		if !res.OK {
			return nil, &APIFailure{Message: text.allFailed}
		}
		return &DetailPanel{
			Title: fmt.Sprintf("GET %s - %s", t.api.PathFor(path), text.all),
			Body:  prettyJSON(res.Data),
		}, nil
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &APIFailure{Message: text.idRequired}
	}
	path := "/" + resource + "/" + url.PathEscape(id) + "/"
	res, err := t.api.Do(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, &APIFailure{Message: payloadField(res.Data, "detail", text.byIDMissing)}
	}

	title := text.byIDTitle
	if resource == "mappings" {
		title = "Doctors for Patient #" + id
	}
	return &DetailPanel{
		Title: fmt.Sprintf("GET %s - %s", t.api.PathFor(path), title),
		Body:  prettyJSON(res.Data),
	}, nil
}

// ToolbarLookup runs a lookup and shows the result in the shared panel.
func (c *Console) ToolbarLookup(ctx context.Context, resource, id string, byID bool) {
	panel, err := c.toolbar.Lookup(ctx, resource, id, byID)
	if err != nil {
		var af *APIFailure
		if errors.As(err, &af) {
			c.msgs.Show(areaToolbar, af.Message, msgError)
			return
		}
		c.reportTransport(areaToolbar, err)
		return
	}
	c.setPanel(panelToolbar, panel)
}
