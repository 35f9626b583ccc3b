// SPDX-License-Identifier: MIT

package monitor

import (
	"fmt"
	"net/url"
)

// Endpoints holds the three collector URLs, one per event kind.
type Endpoints struct {
	Batch string
	Epoch string
	Train string
}

// For returns the endpoint an event of kind k is posted to.
func (e Endpoints) For(k EventKind) string {
	switch k {
	case EventBatch:
		return e.Batch
	case EventEpoch:
		return e.Epoch
	case EventTrain:
		return e.Train
	}
	return ""
}

// ResolveEndpoints joins root and path, then resolves "batch", "epoch" and
// "train" against the result using RFC 3986 reference resolution. A base
// without a trailing slash has its last path segment replaced, so
// "http://host/api" yields "http://host/batch" while "http://host/api/"
// yields "http://host/api/batch".
func ResolveEndpoints(root, path string) (Endpoints, error) {
	rootURL, err := url.Parse(root)
	if err != nil {
		return Endpoints{}, fmt.Errorf("parse root url: %w", err)
	}

	base := rootURL
	if path != "" {
		ref, err := url.Parse(path)
		if err != nil {
			return Endpoints{}, fmt.Errorf("parse path %q: %w", path, err)
		}
		base = rootURL.ResolveReference(ref)
	}

	resolve := func(k EventKind) string {
		return base.ResolveReference(&url.URL{Path: k.String()}).String()
	}

	return Endpoints{
		Batch: resolve(EventBatch),
		Epoch: resolve(EventEpoch),
		Train: resolve(EventTrain),
	}, nil
}
