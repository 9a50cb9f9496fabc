package relay

import (
	"testing"
)

func TestParseScanResponse_WifiList(t *testing.T) {
	body := []byte(`{"wifiList":[
		{"ssid":"A","mac":"m1","signal":-50,"channel":6,"security":"WPA2","frequency":"2.4GHz"},
		{"ssid":"B","mac":"m2","signal":"-30","channel":"36","security":"WPA3","frequency":"5GHz"}
	]}`)

	result := ParseScanResponse(body)

	if result.Source != SourceJSON {
		t.Fatalf("Source = %v, want json", result.Source)
	}
	if len(result.Networks) != 2 {
		t.Fatalf("got %d networks, want 2", len(result.Networks))
	}

	first := result.Networks[0]
	if first.SSID != "B" || first.SignalStrength != -30 || first.Channel != 36 || first.Band != Band5GHz {
		t.Errorf("first = %+v, want B/-30/36/5GHz", first)
	}
	if first.SecurityMode != "WPA3" {
		t.Errorf("SecurityMode = %q, want WPA3", first.SecurityMode)
	}
	if result.Networks[1].SSID != "A" || result.Networks[1].Band != Band24GHz {
		t.Errorf("second = %+v, want A on 2.4GHz", result.Networks[1])
	}
}

func TestParseScanResponse_WifiListTakesPriority(t *testing.T) {
	body := []byte(`{"wifiScan":[{"ssid":"FromScan"}],"wifiList":[{"ssid":"FromList"}]}`)

	result := ParseScanResponse(body)

	if len(result.Networks) != 1 || result.Networks[0].SSID != "FromList" {
		t.Errorf("networks = %+v, want only FromList", result.Networks)
	}
}

func TestParseScanResponse_EmptyListFallsThrough(t *testing.T) {
	body := []byte(`{"wifiList":[],"wifiScan":[{"ssid":"Real","signal":-55}]}`)

	result := ParseScanResponse(body)

	if result.Source != SourceJSON {
		t.Fatalf("Source = %v, want json", result.Source)
	}
	if len(result.Networks) != 1 || result.Networks[0].SSID != "Real" {
		t.Errorf("networks = %+v, want only Real", result.Networks)
	}
}

func TestParseScanResponse_Aliases(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Network
	}{
		{
			name: "firmware field names",
			body: `{"wifiScan":[{"wifiScanSSID":"X","wifiScanMAC":"aa","wifiScanChannel":"11","wifiScanSignalStrength":"-61","wifiScanSecurityMode":"WPA","wifiScanChkHz":"2.4GHz"}]}`,
			want: Network{SSID: "X", MAC: "aa", Channel: 11, SignalStrength: -61, SecurityMode: "WPA", Band: Band24GHz},
		},
		{
			name: "bssid rssi enc freq",
			body: `{"wifiScan":[{"ssid":"X","bssid":"bb","rssi":-42,"enc":"NONE","freq":"5GHz"}]}`,
			want: Network{SSID: "X", MAC: "bb", Channel: DefaultChannel, SignalStrength: -42, SecurityMode: "NONE", Band: Band5GHz},
		},
		{
			name: "missing fields take defaults",
			body: `{"wifiScan":[{"ssid":"X"}]}`,
			want: Network{SSID: "X", MAC: "", Channel: DefaultChannel, SignalStrength: DefaultSignal, SecurityMode: DefaultSecurityMode, Band: Band24GHz},
		},
		{
			name: "percent signal",
			body: `{"wifiScan":[{"ssid":"X","signal":"85%"}]}`,
			want: Network{SSID: "X", Channel: DefaultChannel, SignalStrength: 85, SecurityMode: DefaultSecurityMode, Band: Band24GHz},
		},
		{
			name: "garbled numbers take defaults",
			body: `{"wifiScan":[{"ssid":"X","signal":"strong","channel":"auto"}]}`,
			want: Network{SSID: "X", Channel: DefaultChannel, SignalStrength: DefaultSignal, SecurityMode: DefaultSecurityMode, Band: Band24GHz},
		},
		{
			name: "padded ssid kept as sent",
			body: `{"wifiList":[{"ssid":" Cafe ","signal":-50}]}`,
			want: Network{SSID: " Cafe ", Channel: DefaultChannel, SignalStrength: -50, SecurityMode: DefaultSecurityMode, Band: Band24GHz},
		},
		{
			name: "blank ssid falls through to next alias",
			body: `{"wifiScan":[{"wifiScanSSID":"   ","ssid":"Backup"}]}`,
			want: Network{SSID: "Backup", Channel: DefaultChannel, SignalStrength: DefaultSignal, SecurityMode: DefaultSecurityMode, Band: Band24GHz},
		},
		{
			name: "first alias wins",
			body: `{"wifiScan":[{"wifiScanSSID":"Primary","ssid":"Secondary"}]}`,
			want: Network{SSID: "Primary", Channel: DefaultChannel, SignalStrength: DefaultSignal, SecurityMode: DefaultSecurityMode, Band: Band24GHz},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseScanResponse([]byte(tt.body))
			if result.Source != SourceJSON {
				t.Fatalf("Source = %v, want json", result.Source)
			}
			if len(result.Networks) != 1 {
				t.Fatalf("got %d networks, want 1", len(result.Networks))
			}
			if got := result.Networks[0]; got != tt.want {
				t.Errorf("network = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseScanResponse_SkipsEntriesWithoutSSID(t *testing.T) {
	body := []byte(`{"wifiScan":[{"mac":"aa"},"junk",{"ssid":""},{"ssid":"Kept"}]}`)

	result := ParseScanResponse(body)

	if len(result.Networks) != 1 || result.Networks[0].SSID != "Kept" {
		t.Errorf("networks = %+v, want only Kept", result.Networks)
	}
}

func TestParseScanResponse_Dedup(t *testing.T) {
	body := []byte(`{"wifiList":[
		{"ssid":"Net","mac":"first","signal":-60},
		{"ssid":"Net","mac":"second","signal":-40},
		{"ssid":"Net","mac":"third","signal":-40},
		{"ssid":"Other","mac":"o","signal":-50}
	]}`)

	result := ParseScanResponse(body)

	if len(result.Networks) != 2 {
		t.Fatalf("got %d networks, want 2", len(result.Networks))
	}
	net, ok := result.Find("Net")
	if !ok {
		t.Fatal("Net missing")
	}
	if net.MAC != "second" {
		t.Errorf("kept MAC = %q, want the earliest of the strongest (second)", net.MAC)
	}
	if result.Networks[0].SSID != "Net" {
		t.Errorf("strongest should sort first, got %q", result.Networks[0].SSID)
	}
}

func TestParseScanResponse_TrailingGarbage(t *testing.T) {
	body := []byte(`{"wifiScan":[{"ssid":"Cafe","signal":"-55"}]}<script>var x = {};</script>`)

	result := ParseScanResponse(body)

	if result.Source != SourceJSON {
		t.Fatalf("Source = %v, want json", result.Source)
	}
	if len(result.Networks) != 1 || result.Networks[0].SSID != "Cafe" {
		t.Errorf("networks = %+v, want Cafe", result.Networks)
	}
}

func TestParseScanResponse_Text(t *testing.T) {
	body := []byte("Home,aa:bb:cc:dd:ee:01,-50,WPA2\nHome_5G,aa:bb:cc:dd:ee:02,-40%,WPA2\nshort,line\n\n ,x,-1,y\nWeak,aa:bb:cc:dd:ee:03,weak,Open")

	result := ParseScanResponse(body)

	if result.Source != SourceText {
		t.Fatalf("Source = %v, want text", result.Source)
	}
	if len(result.Networks) != 3 {
		t.Fatalf("got %d networks, want 3: %+v", len(result.Networks), result.Networks)
	}

	five := result.Networks[0]
	if five.SSID != "Home_5G" || five.Band != Band5GHz || five.Channel != 157 || five.SignalStrength != -40 {
		t.Errorf("first = %+v, want Home_5G/5GHz/157/-40", five)
	}
	two := result.Networks[1]
	if two.SSID != "Home" || two.Band != Band24GHz || two.Channel != 6 {
		t.Errorf("second = %+v, want Home/2.4GHz/6", two)
	}
	weak := result.Networks[2]
	if weak.SignalStrength != DefaultSignal || weak.SecurityMode != "Open" {
		t.Errorf("third = %+v, want default signal and Open", weak)
	}
}

func TestParseScanResponse_Placeholder(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"empty", []byte{}},
		{"html", []byte("<html><body>error</body></html>")},
		{"empty list", []byte(`{"wifiList":[]}`)},
		{"no list key", []byte(`{"errCode":0}`)},
		{"json array", []byte(`[{"ssid":"A"}]`)},
		{"invalid utf8", []byte{0xff, 0xfe, ',', 'a', ',', 'b', ',', 'c'}},
		{"list of wrong type", []byte(`{"wifiScan":"none"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseScanResponse(tt.body)

			if !result.IsPlaceholder() {
				t.Fatalf("Source = %v, want placeholder", result.Source)
			}
			if len(result.Networks) != 4 {
				t.Fatalf("got %d networks, want 4", len(result.Networks))
			}
			wantOrder := []string{"HomeNetwork", "HomeNetwork_5G", "OfficeWiFi", "GuestNetwork"}
			for i, ssid := range wantOrder {
				if result.Networks[i].SSID != ssid {
					t.Errorf("Networks[%d] = %q, want %q", i, result.Networks[i].SSID, ssid)
				}
			}
		})
	}
}

func TestPlaceholderNetworks_ReturnsCopy(t *testing.T) {
	first := PlaceholderNetworks()
	first[0].SSID = "changed"

	if PlaceholderNetworks()[0].SSID != "HomeNetwork" {
		t.Error("PlaceholderNetworks should not expose the shared fixture")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	input := []Network{
		{SSID: "a", SignalStrength: -70},
		{SSID: "b", SignalStrength: -30},
		{SSID: "c", SignalStrength: -70},
		{SSID: "a", SignalStrength: -20},
		{SSID: "d", SignalStrength: -90},
	}

	once := Normalize(input)
	twice := Normalize(once)

	if len(once) != 4 {
		t.Fatalf("got %d networks, want 4", len(once))
	}
	for i := 1; i < len(once); i++ {
		if once[i-1].SignalStrength < once[i].SignalStrength {
			t.Errorf("not sorted at %d: %d before %d", i, once[i-1].SignalStrength, once[i].SignalStrength)
		}
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("Normalize not idempotent at %d: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestSortBySignal_StableOnTies(t *testing.T) {
	networks := []Network{
		{SSID: "first", SignalStrength: -60},
		{SSID: "strong", SignalStrength: -10},
		{SSID: "second", SignalStrength: -60},
		{SSID: "third", SignalStrength: -60},
	}

	SortBySignal(networks)

	want := []string{"strong", "first", "second", "third"}
	for i, ssid := range want {
		if networks[i].SSID != ssid {
			t.Errorf("networks[%d] = %q, want %q", i, networks[i].SSID, ssid)
		}
	}
}

func TestParseScanResponse_ExtremeSignals(t *testing.T) {
	body := []byte(`{"wifiList":[{"ssid":"A","signal":-9e18},{"ssid":"B","signal":9e18},{"ssid":"C","signal":-40}]}`)

	result := ParseScanResponse(body)

	want := []string{"B", "C", "A"}
	if len(result.Networks) != len(want) {
		t.Fatalf("got %d networks, want %d", len(result.Networks), len(want))
	}
	for i, ssid := range want {
		if result.Networks[i].SSID != ssid {
			t.Errorf("networks[%d] = %q (%d), want %q", i, result.Networks[i].SSID, result.Networks[i].SignalStrength, ssid)
		}
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"clean", `{"a":1}`, `{"a":1}`, false},
		{"trailing html", `{"a":1}<br>`, `{"a":1}`, false},
		{"nested", `{"a":{"b":[1,{"c":2}]}}xx`, `{"a":{"b":[1,{"c":2}]}}`, false},
		{"braces in strings", `{"a":"}{\"}"}tail`, `{"a":"}{\"}"}`, false},
		{"no object", `hello`, "", true},
		{"unclosed", `{"a":1`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanJSONResponse([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("CleanJSONResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("CleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func BenchmarkParseScanResponse(b *testing.B) {
	body := []byte(mockScanResponse)
	for i := 0; i < b.N; i++ {
		ParseScanResponse(body)
	}
}
