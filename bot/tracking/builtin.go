package tracking

func init() {
	for _, group := range builtinGroups {
		if err := Register(group); err != nil {
			panic(err)
		}
	}
}

var builtinGroups = []Group{
	{
		Name:        "utm",
		Description: "Google Analytics UTM campaign tags",
		Params: []string{
			"utm_source",
			"utm_medium",
			"utm_campaign",
			"utm_term",
			"utm_content",
			"utm_referrer",
		},
	},
	{
		Name:        "social",
		Description: "social network and ad platform click IDs",
		Params: []string{
			"fbclid",
			"gclid",
			"dclid",
			"twclid",
			"igshid",
			"igsh",
		},
	},
	{
		Name:        "affiliate",
		Description: "affiliate and click tracking",
		Params: []string{
			"aff_id",
			"aff_sub",
			"aff_click_id",
			"click_id",
			"subid",
			"subid2",
			"subid3",
			"tag",
		},
	},
	{
		Name:        "campaign",
		Description: "campaign and ad placement tracking",
		Params: []string{
			"campaign_id",
			"ad_id",
			"placement_id",
			"creative_id",
			"network_id",
		},
	},
	{
		Name:        "referrer",
		Description: "referrer and session tracking",
		Params: []string{
			"ref",
			"source",
			"tk",
			"referrer",
			"sref",
			"referer",
			"track_id",
			"rurl",
			"sid",
		},
	},
}
