package galaxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/swgwatch/swgwatch/pkg/types"
)

// ErrRemoteCall marks an enrichment call that could not produce a usable
// response. Callers degrade to serving existing data.
var ErrRemoteCall = errors.New("enrichment remote call failure")

// ResourceInfo is the detailed attribute bundle the enrichment interface
// returns for one resource.
type ResourceInfo struct {
	ID             int64
	Name           string
	ClassNumericID int64
	AvailableAt    int64
	Stats          types.ResourceStats
}

// Valid reports whether the response carries enough identity to persist.
// Malformed responses are discarded, never written back.
func (r *ResourceInfo) Valid() bool {
	return r != nil && r.ID > 0 && strings.TrimSpace(r.Name) != ""
}

// ResourceLookup is the remote enrichment interface: lookup-by-name and
// lookup-by-id over an envelope-wrapped RPC.
type ResourceLookup interface {
	LookupByName(ctx context.Context, name string) (*ResourceInfo, error)
	LookupByID(ctx context.Context, id int64) (*ResourceInfo, error)
}

// Client calls the upstream SOAP-style enrichment endpoint. Outbound calls
// go through a shared rate limiter; the upstream bans aggressive clients.
type Client struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

func NewClient(endpoint string, requestsPerMinute int, timeout time.Duration) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
	}
}

func (c *Client) LookupByName(ctx context.Context, name string) (*ResourceInfo, error) {
	body := fmt.Sprintf(`<name>%s</name>`, xmlEscape(name))
	return c.call(ctx, "GetResourceInfo", body)
}

func (c *Client) LookupByID(ctx context.Context, id int64) (*ResourceInfo, error) {
	body := fmt.Sprintf(`<id>%d</id>`, id)
	return c.call(ctx, "GetResourceInfoFromID", body)
}

func (c *Client) call(ctx context.Context, operation, inner string) (*ResourceInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteCall, err)
	}

	envelope := fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body><%s>%s</%s></soap:Body></soap:Envelope>`,
		operation, inner, operation)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBufferString(envelope))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteCall, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", operation)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteCall, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d", ErrRemoteCall, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteCall, err)
	}

	return ParseResourceInfo(payload)
}

// ParseResourceInfo decodes an enrichment response envelope. The primary
// path is a structured tree decode; when the envelope is mangled it falls
// back to a pattern scrape of the same payload, so one malformed field
// does not void an otherwise-usable response.
func ParseResourceInfo(payload []byte) (*ResourceInfo, error) {
	if info := parseResourceInfoTree(payload); info.Valid() {
		return info, nil
	}
	if info := scrapeResourceInfo(payload); info.Valid() {
		return info, nil
	}
	return nil, fmt.Errorf("%w: response carries no usable resource", ErrRemoteCall)
}

func parseResourceInfoTree(payload []byte) *ResourceInfo {
	root, err := Decode(payload)
	if err != nil {
		return nil
	}

	res := findElement(root, "resource")
	if res == nil {
		return nil
	}

	info := &ResourceInfo{}
	if v, err := strconv.ParseInt(res.ChildText("id"), 10, 64); err == nil {
		info.ID = v
	}
	info.Name = res.ChildText("name")
	if v, err := strconv.ParseInt(res.ChildText("class_id"), 10, 64); err == nil {
		info.ClassNumericID = v
	}
	if v, err := strconv.ParseInt(res.ChildText("available_timestamp"), 10, 64); err == nil {
		info.AvailableAt = v
	}

	stats := res.Child("stats")
	if stats == nil {
		stats = res
	}
	for _, stat := range types.StatNames {
		if v, ok := stats.Child(stat).IntText(); ok {
			info.Stats.Set(stat, v)
		}
	}
	return info
}

var (
	scrapeID      = regexp.MustCompile(`<id>\s*(\d+)\s*</id>`)
	scrapeName    = regexp.MustCompile(`<name>\s*([^<]+?)\s*</name>`)
	scrapeClass   = regexp.MustCompile(`<class_id>\s*(\d+)\s*</class_id>`)
	scrapeAvail   = regexp.MustCompile(`<available_timestamp>\s*(\d+)\s*</available_timestamp>`)
	scrapeStatRes = map[string]*regexp.Regexp{}
)

func init() {
	for _, stat := range types.StatNames {
		scrapeStatRes[stat] = regexp.MustCompile(`<` + stat + `>\s*(\d+)\s*</` + stat + `>`)
	}
}

func scrapeResourceInfo(payload []byte) *ResourceInfo {
	info := &ResourceInfo{}
	if m := scrapeID.FindSubmatch(payload); m != nil {
		info.ID, _ = strconv.ParseInt(string(m[1]), 10, 64)
	}
	if m := scrapeName.FindSubmatch(payload); m != nil {
		info.Name = string(m[1])
	}
	if m := scrapeClass.FindSubmatch(payload); m != nil {
		info.ClassNumericID, _ = strconv.ParseInt(string(m[1]), 10, 64)
	}
	if m := scrapeAvail.FindSubmatch(payload); m != nil {
		info.AvailableAt, _ = strconv.ParseInt(string(m[1]), 10, 64)
	}
	for stat, re := range scrapeStatRes {
		if m := re.FindSubmatch(payload); m != nil {
			if v, err := strconv.Atoi(string(m[1])); err == nil {
				info.Stats.Set(stat, v)
			}
		}
	}
	return info
}

func findElement(n *Node, name string) *Node {
	if n == nil {
		return nil
	}
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		case '\'':
			buf.WriteString("&apos;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
