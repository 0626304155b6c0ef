package catalog

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/retoapp/socia-service/internal/config"
	"github.com/sirupsen/logrus"
)

// Item is one product entry of the brand's price feed
type Item struct {
	Name      string
	Category  string
	BasePrice float64
}

// Client fetches and parses the brand's XML price catalog
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new catalog client. Returns nil when no feed URL
// is configured.
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	if cfg.CatalogFeedURL == "" {
		return nil
	}
	return &Client{
		url: cfg.CatalogFeedURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetchFeed downloads the raw XML feed
func (c *Client) fetchFeed() ([]byte, error) {
	req, err := http.NewRequest("GET", c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	c.log.Debugf("Catalog XML response: %d bytes", len(body))

	return body, nil
}

// parseFeed extracts products from the XML document
func (c *Client) parseFeed(rawBody []byte) ([]Item, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	productElements := doc.FindElements("//catalogo/producto")
	if len(productElements) == 0 {
		return nil, fmt.Errorf("no products found in feed")
	}

	items := make([]Item, 0, len(productElements))
	for _, el := range productElements {
		nameEl := el.FindElement("./nombre")
		priceEl := el.FindElement("./precio")
		if nameEl == nil || priceEl == nil {
			continue
		}

		price, err := strconv.ParseFloat(priceEl.Text(), 64)
		if err != nil || price < 0 {
			c.log.Warnf("Skipping product with invalid price: %s", nameEl.Text())
			continue
		}

		item := Item{Name: nameEl.Text(), BasePrice: price}
		if catEl := el.FindElement("./categoria"); catEl != nil {
			item.Category = catEl.Text()
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid products in feed")
	}
	return items, nil
}

// FetchCatalog retrieves the current product catalog from the brand feed
func (c *Client) FetchCatalog() ([]Item, error) {
	body, err := c.fetchFeed()
	if err != nil {
		return nil, err
	}

	items, err := c.parseFeed(body)
	if err != nil {
		return nil, err
	}

	c.log.Infof("Fetched catalog: %d products", len(items))
	return items, nil
}
