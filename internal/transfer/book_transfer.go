package transfer

type BookUpsert struct {
	Title       string `json:"title"`
	Label       string `json:"label"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url"`
}

type BookPatch struct {
	Title       *string `json:"title"`
	Label       *string `json:"label"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	ImageURL    *string `json:"image_url"`
}

type SubscriberCreate struct {
	Email string `json:"email"`
}

type LikeCreate struct {
	Slug string `json:"slug"`
}
