package catalog

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return &Client{log: log}
}

func TestParseFeed(t *testing.T) {
	feed := []byte(`<?xml version="1.0" encoding="utf-8"?>
		<catalogo>
			<producto>
				<nombre>Zapatilla Eva</nombre>
				<categoria>zapatillas</categoria>
				<precio>850</precio>
			</producto>
			<producto>
				<nombre>Bolsa Mariana</nombre>
				<categoria>bolsas</categoria>
				<precio>620.50</precio>
			</producto>
		</catalogo>`)

	items, err := testClient().parseFeed(feed)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Zapatilla Eva", items[0].Name)
	assert.Equal(t, "zapatillas", items[0].Category)
	assert.InDelta(t, 850, items[0].BasePrice, 1e-9)
	assert.InDelta(t, 620.50, items[1].BasePrice, 1e-9)
}

func TestParseFeed_SkipsInvalidEntries(t *testing.T) {
	feed := []byte(`<catalogo>
		<producto>
			<nombre>Sin precio</nombre>
		</producto>
		<producto>
			<nombre>Precio malo</nombre>
			<precio>abc</precio>
		</producto>
		<producto>
			<nombre>Flats Carmen</nombre>
			<categoria>flats</categoria>
			<precio>499</precio>
		</producto>
	</catalogo>`)

	items, err := testClient().parseFeed(feed)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Flats Carmen", items[0].Name)
}

func TestParseFeed_EmptyFeed(t *testing.T) {
	_, err := testClient().parseFeed([]byte(`<catalogo></catalogo>`))
	assert.Error(t, err)
}

func TestParseFeed_MalformedXML(t *testing.T) {
	_, err := testClient().parseFeed([]byte(`<catalogo><producto>`))
	assert.Error(t, err)
}
