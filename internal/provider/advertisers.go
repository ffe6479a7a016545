package provider

// KnownAdvertiser is a potential advertiser the lead watcher can identify
type KnownAdvertiser struct {
	Name    string
	Aliases []string
	// Words are aliases that only match as whole ASCII words
	Words []string
}

// DefaultKnownAdvertisers is the bounded entity set used for lead extraction
var DefaultKnownAdvertisers = []KnownAdvertiser{
	{Name: "Microsoft", Aliases: []string{"마이크로소프트", "microsoft"}, Words: []string{"ms"}},
	{Name: "Google", Aliases: []string{"구글", "google"}},
	{Name: "Apple", Aliases: []string{"애플", "apple"}},
	{Name: "Amazon", Aliases: []string{"아마존", "amazon"}, Words: []string{"aws"}},
	{Name: "Samsung", Aliases: []string{"삼성", "samsung"}},
	{Name: "Naver", Aliases: []string{"네이버", "naver"}},
	{Name: "Kakao", Aliases: []string{"카카오", "kakao"}},
}

// Names returns the canonical names of the given advertisers
func Names(advertisers []KnownAdvertiser) []string {
	names := make([]string, 0, len(advertisers))
	for _, a := range advertisers {
		names = append(names, a.Name)
	}
	return names
}
