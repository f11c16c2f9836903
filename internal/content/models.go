package content

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LandingPage struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title        string             `bson:"title" json:"title"`
	Hero         Hero               `bson:"hero" json:"hero"`
	Features     []Feature          `bson:"features" json:"features"`
	Testimonials []Testimonial      `bson:"testimonials" json:"testimonials"`
	CaseStudies  []CaseStudy        `bson:"case_studies" json:"caseStudies"`
	Newsletter   Newsletter         `bson:"newsletter" json:"newsletter"`
	SEO          SEO                `bson:"seo" json:"seo"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

type Hero struct {
	Headline    string `bson:"headline" json:"headline"`
	Subheadline string `bson:"subheadline" json:"subheadline"`
	CTAText     string `bson:"cta_text" json:"ctaText"`
	CTALink     string `bson:"cta_link" json:"ctaLink"`
	ImageURL    string `bson:"image_url" json:"imageUrl"`
}

type Feature struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Icon        string `bson:"icon" json:"icon"`
}

type Testimonial struct {
	Quote  string `bson:"quote" json:"quote"`
	Author string `bson:"author" json:"author"`
	Role   string `bson:"role" json:"role"`
}

type CaseStudy struct {
	Title   string `bson:"title" json:"title"`
	Summary string `bson:"summary" json:"summary"`
	Slug    string `bson:"slug" json:"slug"`
}

type Newsletter struct {
	Headline    string `bson:"headline" json:"headline"`
	Subheadline string `bson:"subheadline" json:"subheadline"`
	ButtonText  string `bson:"button_text" json:"buttonText"`
}

type SEO struct {
	Title       string   `bson:"title" json:"title"`
	Description string   `bson:"description" json:"description"`
	Keywords    []string `bson:"keywords" json:"keywords"`
}

type SiteSettings struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SiteName     string             `bson:"site_name" json:"siteName"`
	Tagline      string             `bson:"tagline" json:"tagline"`
	ContactEmail string             `bson:"contact_email" json:"contactEmail"`
	SocialLinks  map[string]string  `bson:"social_links" json:"socialLinks"`
	FooterText   string             `bson:"footer_text" json:"footerText"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

type Page struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Slug      string             `bson:"slug" json:"slug"`
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body" json:"body"`
	Active    bool               `bson:"active" json:"active"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

type BlogPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Slug        string             `bson:"slug" json:"slug"`
	Title       string             `bson:"title" json:"title"`
	Excerpt     string             `bson:"excerpt" json:"excerpt"`
	Body        string             `bson:"body" json:"body"`
	Author      string             `bson:"author" json:"author"`
	Tags        []string           `bson:"tags" json:"tags"`
	Featured    bool               `bson:"featured" json:"featured"`
	Published   bool               `bson:"published" json:"published"`
	PublishedAt time.Time          `bson:"published_at" json:"publishedAt"`
}
