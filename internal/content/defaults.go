package content

// DefaultLandingPage is served when the content store is unreachable or
// holds no landing document, so the site always has something to render.
func DefaultLandingPage() *LandingPage {
	return &LandingPage{
		Title: "MyPip",
		Hero: Hero{
			Headline:    "Your pocket companion, everywhere you go",
			Subheadline: "MyPip keeps track of the little things so you can focus on the big ones.",
			CTAText:     "Get early access",
			CTALink:     "#newsletter",
		},
		Features: []Feature{
			{
				Title:       "Always with you",
				Description: "Works offline and syncs the moment you're back online.",
				Icon:        "pocket",
			},
			{
				Title:       "Private by default",
				Description: "Your data stays yours. No tracking, no selling, no surprises.",
				Icon:        "shield",
			},
			{
				Title:       "Effortless capture",
				Description: "One tap to save a thought, a link, or a reminder.",
				Icon:        "zap",
			},
		},
		Testimonials: []Testimonial{},
		CaseStudies:  []CaseStudy{},
		Newsletter: Newsletter{
			Headline:    "Be the first to know",
			Subheadline: "Join the list and get launch updates straight to your inbox.",
			ButtonText:  "Subscribe",
		},
		SEO: SEO{
			Title:       "MyPip — your pocket companion",
			Description: "MyPip keeps track of the little things so you can focus on the big ones.",
			Keywords:    []string{"mypip", "productivity", "companion"},
		},
	}
}
