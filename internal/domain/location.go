package domain

type LocationKey string

const (
	LocationSapa       LocationKey = "sapa"
	LocationHaNoi      LocationKey = "ha_noi"
	LocationMuCangChai LocationKey = "mu_cang_chai"
	LocationDaNang     LocationKey = "da_nang"
)

// LocationKeys lists every site the flow knows how to price.
var LocationKeys = []LocationKey{LocationSapa, LocationHaNoi, LocationMuCangChai, LocationDaNang}

func ParseLocationKey(raw string) (LocationKey, bool) {
	for _, k := range LocationKeys {
		if string(k) == raw {
			return k, true
		}
	}
	return "", false
}
