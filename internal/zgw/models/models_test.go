package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef(t *testing.T) {
	t.Run("unresolved exposes url only", func(t *testing.T) {
		ref := Unresolved[CaseType]("https://catalogi.test/zaaktypen/1")
		url, ok := ref.URL()
		assert.True(t, ok)
		assert.Equal(t, "https://catalogi.test/zaaktypen/1", url)
		_, ok = ref.Object()
		assert.False(t, ok)
		assert.False(t, ref.IsResolved())
		assert.False(t, ref.IsZero())
	})

	t.Run("resolved exposes object only", func(t *testing.T) {
		ref := Resolved(&CaseType{URL: "https://catalogi.test/zaaktypen/1"})
		_, ok := ref.URL()
		assert.False(t, ok)
		obj, ok := ref.Object()
		require.True(t, ok)
		assert.Equal(t, "https://catalogi.test/zaaktypen/1", obj.URL)
	})

	t.Run("resolving nil gives an absent reference", func(t *testing.T) {
		ref := Resolved[Resultaat](nil)
		assert.True(t, ref.IsZero())
	})
}

func TestCaseDecoding(t *testing.T) {
	body := []byte(`{
		"url": "https://zaken.test/zaken/d8bbdeb7-770f-4ca9-b1ea-77b4730bf67d",
		"uuid": "d8bbdeb7-770f-4ca9-b1ea-77b4730bf67d",
		"identificatie": "ZAAK-2024-0000000001",
		"zaaktype": "https://catalogi.test/zaaktypen/1",
		"status": "https://zaken.test/statussen/1",
		"resultaat": null,
		"startdatum": "2024-03-01",
		"vertrouwelijkheidaanduiding": "openbaar"
	}`)

	var c Case
	require.NoError(t, json.Unmarshal(body, &c))

	typeURL, ok := c.Type.URL()
	assert.True(t, ok)
	assert.Equal(t, "https://catalogi.test/zaaktypen/1", typeURL)
	assert.False(t, c.Status.IsZero())
	assert.True(t, c.Result.IsZero())
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), c.StartDate.Time)
	assert.Equal(t, ConfidentialityOpenbaar, c.Confidentiality)

	t.Run("resolved references encode as objects", func(t *testing.T) {
		c.Type = Resolved(&CaseType{URL: typeURL, Identificatie: "ZT-1"})
		out, err := json.Marshal(c)
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(out, &raw))
		zaaktype, ok := raw["zaaktype"].(map[string]any)
		require.True(t, ok, "zaaktype should be an object")
		assert.Equal(t, "ZT-1", zaaktype["identificatie"])
		assert.Equal(t, "https://zaken.test/statussen/1", raw["status"])
		assert.Nil(t, raw["resultaat"])
	})

	t.Run("rejects non string non object references", func(t *testing.T) {
		var bad Case
		err := json.Unmarshal([]byte(`{"uuid":"d8bbdeb7-770f-4ca9-b1ea-77b4730bf67d","zaaktype": 12}`), &bad)
		assert.Error(t, err)
	})
}

func TestConfidentiality(t *testing.T) {
	assert.True(t, ConfidentialityOpenbaar.AllowedUnder(ConfidentialityOpenbaar))
	assert.True(t, ConfidentialityIntern.AllowedUnder(ConfidentialityVertrouwelijk))
	assert.False(t, ConfidentialityGeheim.AllowedUnder(ConfidentialityVertrouwelijk))
	assert.False(t, Confidentiality("unknown").AllowedUnder(ConfidentialityZeerGeheim))
	assert.False(t, Confidentiality("").AllowedUnder(ConfidentialityZeerGeheim))

	level, ok := ParseConfidentiality(" Beperkt Openbaar ")
	assert.True(t, ok)
	assert.Equal(t, ConfidentialityBeperktOpenbaar, level)

	_, ok = ParseConfidentiality("top-secret")
	assert.False(t, ok)
}

func TestRoleHelpers(t *testing.T) {
	role := Role{Description: RoleMedeInitiator, BetrokkeneIdentificatie: &PartyIdentification{BSN: "111222333"}}
	assert.True(t, role.IsInitiator())
	assert.Equal(t, "111222333", role.BSN())

	assert.Empty(t, Role{}.BSN())
	assert.False(t, Role{Description: RoleBehandelaar}.IsInitiator())
}
