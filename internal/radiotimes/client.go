// SPDX-License-Identifier: GPL-3.0-or-later

package radiotimes

import (
	"context"
	"strings"

	"github.com/nomis/sd2xmltv/internal/fetch"
)

// BaseURL is the Radio Times listing service root.
const BaseURL = "http://xmltv.radiotimes.com/xmltv"

// SourceInfoName is the provider literal written to the output root
// element.
const SourceInfoName = "Radio Times"

// Client downloads Radio Times flat files through an injected Fetcher.
type Client struct {
	fetcher fetch.Fetcher
	base    string
}

// NewClient returns a Client. An empty base selects BaseURL.
func NewClient(fetcher fetch.Fetcher, base string) *Client {
	if base == "" {
		base = BaseURL
	}
	return &Client{fetcher: fetcher, base: strings.TrimRight(base, "/")}
}

// ChannelList downloads the provider's channel list payload.
func (c *Client) ChannelList(ctx context.Context) (string, error) {
	body, err := c.fetcher.Do(ctx, fetch.Request{
		Name: "channel list",
		URL:  c.base + "/channels.dat",
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Listings downloads the raw listing payload for one channel. name is
// used for progress logging only.
func (c *Client) Listings(ctx context.Context, id, name string) (string, error) {
	body, err := c.fetcher.Do(ctx, fetch.Request{
		Name: "programmes for " + name,
		URL:  c.base + "/" + id + ".dat",
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}
