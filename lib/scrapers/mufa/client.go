package mufa

import (
	"context"
	"fmt"
	"time"

	"mufa-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/mufa")

const DefaultBaseUrl = "https://www.mufa.org"

// mufa.org serves an empty shell to clients it does not recognize
// as a browser, so every request carries a fixed realistic header set
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Connection":      "keep-alive",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Cache-Control":   "no-cache",
}

// non-2xx response from the source site
type StatusError struct {
	Url        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Url, e.StatusCode)
}

type Client struct {
	baseUrl string
	http    *resty.Client
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl, overridden in tests
	BaseUrl string
	// dumps request/response pairs when debug logging is on
	InstrumentOutput restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}

	client := resty.New()
	client.SetHeaders(browserHeaders)
	client.SetTimeout(time.Second * 30)
	restyutil.InstrumentClient(client, tracer, opts.InstrumentOutput)

	return Client{
		baseUrl: baseUrl,
		http:    client,
	}
}

func (c Client) BaseUrl() string {
	return c.baseUrl
}

func (c Client) HomeUrl() string {
	return c.baseUrl
}

func (c Client) TeamListUrl(divisionId string) string {
	return fmt.Sprintf("%s/League/Division/HomeArticle.aspx?d=%s", c.baseUrl, divisionId)
}

func (c Client) TeamScheduleUrl(teamId, divisionId string) string {
	return fmt.Sprintf("%s/League/Division/Team.aspx?t=%s&d=%s", c.baseUrl, teamId, divisionId)
}

func (c Client) FieldListUrl(divisionId string) string {
	return fmt.Sprintf("%s/League/Division/FieldList.aspx?d=%s", c.baseUrl, divisionId)
}

func (c Client) FieldDetailUrl(fieldId, divisionId string) string {
	return fmt.Sprintf("%s/League/Division/Field.aspx?f=%s&d=%s", c.baseUrl, fieldId, divisionId)
}

// performs a single GET against the source site and hands back raw
// html. there are no retries here, requeueing a failed entity is the
// caller's decision.
func (c Client) FetchPage(ctx context.Context, url string) (string, error) {
	ctx, span := tracer.Start(ctx, "FetchPage")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.SetStatus(codes.Error, "transport failure")
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		span.SetStatus(codes.Error, "unexpected status")
		return "", &StatusError{Url: url, StatusCode: res.StatusCode()}
	}

	return res.String(), nil
}
