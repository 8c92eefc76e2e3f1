package services

import (
	"time"

	"portfolio-backend-go/internal/models"
)

// Content shown by the site before anything has been saved.

const DefaultHeroDescription = "Passionate and seasoned Software Engineer with a strong focus on frontend development. Proficient in TypeScript and well-versed in all aspects of web technologies. Proficient in UI UX design with responsive design creation and good experience"

const DefaultAboutDescription = "Salam hangat,\n\n" +
	"Saya Davian Putra Swardana, seorang mahasiswa Sistem Informasi di Universitas Jambi dan seorang Fullstack Developer yang memiliki passion dalam membangun produk software yang impactful.\n\n" +
	"Dalam pengembangan web, saya menggunakan teknologi modern seperti Next.js, TypeScript, dan Tailwind CSS untuk frontend, serta Golang untuk backend development. Untuk aplikasi mobile, saya mengembangkan aplikasi Android native menggunakan Kotlin.\n\n" +
	"Saya percaya bahwa pengembangan software yang baik adalah tentang menciptakan solusi yang user-friendly dengan performa tinggi. Saya selalu fokus pada efisiensi dan kejelasan, baik dalam interface yang intuitif maupun dalam backend services yang robust.\n\n" +
	"Sebagai seorang fast learner, saya senang bekerja dalam lingkungan yang dinamis dan menantang. Saya percaya bahwa komunikasi yang baik dan sinergi tim adalah kunci kesuksesan dalam pengembangan software.\n\n" +
	"Pengalaman saya telah membentuk kemampuan teknis, analitis, dan leadership saya. Saya selalu bersemangat untuk bekerja dalam tim, belajar dari orang lain, dan berkontribusi pada proyek-proyek yang impactful."

const (
	DefaultSidebarName     = "Davian Putra"
	DefaultSidebarJobTitle = "Web Developer"
)

var defaultAboutMeImages = []string{
	"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?q=80&w=500&auto=format",
	"https://images.unsplash.com/photo-1519085360753-af0119f7cbe7?q=80&w=500&auto=format",
	"https://images.unsplash.com/photo-1605379399642-870262d3d051?q=80&w=500&auto=format",
	"https://images.unsplash.com/photo-1572120360610-d971b9d7767c?q=80&w=500&auto=format",
}

func DefaultHero(now time.Time) models.HeroContent {
	return models.HeroContent{ID: SingletonID, Description: DefaultHeroDescription, CreatedAt: now, UpdatedAt: now}
}

func DefaultAbout(now time.Time) models.AboutContent {
	return models.AboutContent{ID: SingletonID, Description: DefaultAboutDescription, CreatedAt: now, UpdatedAt: now}
}

func DefaultSidebar(now time.Time) models.SidebarProfile {
	return models.SidebarProfile{ID: SingletonID, Name: DefaultSidebarName, JobTitle: DefaultSidebarJobTitle, CreatedAt: now, UpdatedAt: now}
}

// DefaultBentoImages is what an empty bento grid falls back to. Only the
// about_me section has placeholders; ids and order start at 1.
func DefaultBentoImages(kind string) []models.BentoGridImage {
	if kind != models.BentoTypeAboutMe {
		return []models.BentoGridImage{}
	}
	items := make([]models.BentoGridImage, 0, len(defaultAboutMeImages))
	for i, url := range defaultAboutMeImages {
		items = append(items, models.BentoGridImage{
			ID:       int64(i + 1),
			Type:     kind,
			ImageURL: url,
			Order:    i + 1,
		})
	}
	return items
}
