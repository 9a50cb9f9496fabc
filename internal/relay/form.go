package relay

import (
	"net/url"
	"strings"
)

// Fixed values of the dual-band selection form.
const (
	RelaySecurityMode = "WPA2/AES"
	RelayEncoding     = "UTF-8"
	RelayChannel24    = "4"
	RelayChannel5     = "157"
	RelayBands        = "24g 5g"
	RelayModule       = "setwifiRelay"
)

// formField is one key/value pair of an ordered form body
type formField struct {
	Key   string
	Value string
}

// Form is an ordered application/x-www-form-urlencoded body. The relay
// firmware parses fields positionally in some versions, so order is kept.
type Form []formField

// Add appends a field
func (f *Form) Add(key, value string) {
	*f = append(*f, formField{Key: key, Value: value})
}

// Encode renders the form in insertion order. ':' and '/' are left as is,
// matching what the relay's own web UI sends for MACs and "WPA2/AES".
func (f Form) Encode() string {
	var b strings.Builder
	for i, field := range f {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escapeFormValue(field.Key))
		b.WriteByte('=')
		b.WriteString(escapeFormValue(field.Value))
	}
	return b.String()
}

// Values returns the form as url.Values
func (f Form) Values() url.Values {
	values := make(url.Values, len(f))
	for _, field := range f {
		values.Add(field.Key, field.Value)
	}
	return values
}

var formUnescaper = strings.NewReplacer("%3A", ":", "%2F", "/")

func escapeFormValue(s string) string {
	return formUnescaper.Replace(url.QueryEscape(s))
}

// loginForm builds the authentication form carrying the password digest
func loginForm(username, digest string) Form {
	var f Form
	f.Add("username", username)
	f.Add("password", digest)
	return f
}

// ToForm builds the dual-band selection body. Only the chosen band's group
// carries the SSID and password; both groups carry the MAC.
func (s SelectionRequest) ToForm() Form {
	ssid24, pwd24 := "", ""
	ssid5, pwd5 := "", ""
	if s.Band == Band5GHz {
		ssid5, pwd5 = s.SSID, s.Password
	} else {
		ssid24, pwd24 = s.SSID, s.Password
	}

	var f Form
	f.Add("wifiRelaySSID", ssid24)
	f.Add("wifiRelaySecurityMode", RelaySecurityMode)
	f.Add("wifiRelayPwd", pwd24)
	f.Add("wifiRelayMAC", s.MAC)
	f.Add("wifiRelayChannel", RelayChannel24)
	f.Add("wifiScanEncode", RelayEncoding)
	f.Add("wifiRelaySSID_5G", ssid5)
	f.Add("wifiRelaySecurityMode_5G", RelaySecurityMode)
	f.Add("wifiRelayPwd_5G", pwd5)
	f.Add("wifiRelayMAC_5G", s.MAC)
	f.Add("wifiRelayChannel_5G", RelayChannel5)
	f.Add("wifiScanEncode_5G", RelayEncoding)
	f.Add("wifiRelayChkHz", RelayBands)
	f.Add("module1", RelayModule)
	return f
}
