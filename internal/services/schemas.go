package services

import (
	"portfolio-backend-go/internal/store"

	"github.com/lib/pq"
)

var byOrder = []store.Order{store.Asc("order"), store.Asc("id")}

func orderField() Field {
	return Field{Name: "order", Kind: KindInt, Default: int64(0)}
}

var CareerSchema = Schema{
	Name:   "career",
	Plural: "careers",
	Table:  "careers",
	Order:  byOrder,
	Fields: []Field{
		{Name: "title", Rules: "required"},
		{Name: "company", Rules: "required"},
		{Name: "location", Rules: "required"},
		{Name: "start_date", Rules: "required"},
		{Name: "end_date", Nullable: true},
		{Name: "duration", Rules: "required"},
		{Name: "months", Rules: "required"},
		{Name: "type", Rules: "required"},
		{Name: "work_type", Rules: "required"},
		{Name: "logo", Default: "🟢"},
		{Name: "logo_url", Nullable: true},
		{Name: "responsibilities", Nullable: true},
		orderField(),
	},
}

var EducationSchema = Schema{
	Name:   "education",
	Plural: "educations",
	Table:  "educations",
	Order:  byOrder,
	Fields: []Field{
		{Name: "institution", Rules: "required"},
		{Name: "degree", Rules: "required"},
		{Name: "major", Rules: "required"},
		{Name: "degree_code", Nullable: true},
		{Name: "start_year", Kind: KindInt, Rules: "required"},
		{Name: "end_year", Kind: KindInt, Nullable: true},
		{Name: "duration", Rules: "required"},
		{Name: "location", Rules: "required"},
		{Name: "logo", Default: "🎓"},
		{Name: "logo_url", Nullable: true},
		orderField(),
	},
}

var TechStackSchema = Schema{
	Name:   "tech stack",
	Plural: "tech stacks",
	Table:  "tech_stacks",
	Order:  []store.Order{store.Asc("name"), store.Asc("id")},
	Fields: []Field{
		{Name: "name", Rules: "required"},
		{Name: "icon_name", Rules: "required"},
		{Name: "color", Rules: "required"},
	},
}

var ProjectSchema = Schema{
	Name:   "project",
	Plural: "projects",
	Table:  "projects",
	Order:  byOrder,
	Fields: []Field{
		{Name: "name", Rules: "required"},
		{Name: "description", Rules: "required"},
		{Name: "slug", Rules: "required"},
		{Name: "featured", Kind: KindBool, Default: false},
		{Name: "image_type", Rules: "oneof=desktop mobile multiple", Default: "desktop"},
		{Name: "image_url", Nullable: true},
		{Name: "project_url", Nullable: true},
		orderField(),
	},
}

var AchievementSchema = Schema{
	Name:   "achievement",
	Plural: "achievements",
	Table:  "achievements",
	Order:  byOrder,
	Fields: []Field{
		{Name: "title", Rules: "required"},
		{Name: "issuer", Rules: "required"},
		{Name: "issued_date", Rules: "required"},
		{Name: "category", Rules: "required"},
		{Name: "credential_url", Nullable: true},
		{Name: "certificate_url", Rules: "required"},
		{Name: "certificate_type", Rules: "oneof=image pdf", Default: "image"},
		{Name: "tags", Kind: KindStringList, Default: pq.StringArray{}},
		orderField(),
	},
}

var ContactLinkSchema = Schema{
	Name:   "contact link",
	Plural: "contact links",
	Table:  "contact_links",
	Order:  byOrder,
	Fields: []Field{
		{Name: "title", Rules: "required"},
		{Name: "description", Rules: "required"},
		{Name: "button_text", Rules: "required"},
		{Name: "url", Rules: "required"},
		{Name: "icon_name", Rules: "required"},
		{Name: "icon_type", Rules: "required,oneof=fa si"},
		{Name: "gradient", Nullable: true},
		{Name: "bg_color", Nullable: true},
		orderField(),
	},
}

var BentoGridSchema = Schema{
	Name:   "bento grid image",
	Plural: "bento grid images",
	Table:  "bento_grid_images",
	Order:  byOrder,
	Fields: []Field{
		{Name: "type", Rules: "required,oneof=project about_me"},
		{Name: "image_url", Rules: "required"},
		orderField(),
	},
}

var HeroSchema = Schema{
	Name:   "hero content",
	Plural: "hero content",
	Table:  "hero_content",
	Fields: []Field{
		{Name: "description", Rules: "required"},
	},
}

var AboutSchema = Schema{
	Name:   "about content",
	Plural: "about content",
	Table:  "about_content",
	Fields: []Field{
		{Name: "description", Rules: "required"},
	},
}

var SidebarSchema = Schema{
	Name:   "sidebar profile",
	Plural: "sidebar profile",
	Table:  "sidebar_profile",
	Fields: []Field{
		{Name: "name", Rules: "required"},
		{Name: "job_title", Rules: "required"},
		{Name: "profile_image_url", Nullable: true},
	},
}
