package blog

import "global-gist/internal/model"

// flagshipPost is the editorial anchor article the seeder keeps present. Its
// fixed id makes the upsert idempotent.
var flagshipPost = model.BlogPost{
	ID:               "plutowealth-default-article-2025",
	Topic:            "Breakthrough Tech Innovations",
	Title:            "Plutowealth: How Three Young Innovators Are Building Africa's Next Generation Fintech Platform",
	Summary:          "In 2025, three Nigerian tech entrepreneurs came together with a shared vision: to make digital wealth management and financial literacy accessible to everyone. That vision gave birth to Plutowealth, a rising fintech company.",
	ImageURL:         "https://storage.googleapis.com/aai-web-samples/user-assets/tech-bootcamp-attendee.png",
	ImageDescription: "Software innovation exhibition, Techminds Academy, May 2025.",
	Sources: []model.GroundingSource{
		{Title: "Techminds Academy", URI: "https://techmindsacademy.org"},
		{Title: "Supabros Inc.", URI: "https://supabrosinc.vercel.app"},
		{Title: "Plutowealth GitHub Organization", URI: "https://github.com/Plutowealth-org"},
	},
	Author: model.Author{
		Name:      "Young Africans Scholars",
		Bio:       "A collective of writers and researchers dedicated to highlighting innovation and entrepreneurship across the African continent.",
		AvatarURL: "https://picsum.photos/seed/young-african-scholars/100/100",
	},
	Content: `
### **Introduction**
In 2025, three Nigerian tech entrepreneurs — **Joseph Soronadi**, **Mustapha Lawal**, and **Abdulrahman Lawal** — came together with a shared vision: to make digital wealth management and financial literacy accessible to everyone. That vision gave birth to **Plutowealth**, a rising fintech company that's already gaining attention in Abuja's growing tech ecosystem.
### **The Beginning**
Plutowealth was founded on the belief that technology can bridge the gap between financial education and financial empowerment. The company's founders — all tech enthusiasts — began developing digital tools to help users understand savings, investments, and personal finance in simple, engaging ways. According to **Joseph Soronadi**, a software engineer and founder of [Techminds Academy](https://techmindsacademy.org), "Our mission is to simplify financial literacy through innovation. We want to make wealth management something everyone can learn, not just professionals."
### **The Team Behind Plutowealth**
The founding team represents a blend of software engineering, design, and entrepreneurial talent:
*   **Joseph Soronadi**, an educator and technologist, brings his experience from running Techminds Academy — a training hub for aspiring developers in Abuja.
*   **Mustapha Lawal** and **Abdulrahman Lawal**, popularly known as the **Lawal Brothers**, are co-founders of [Supabros](https://supabrosinc.vercel.app), a creative technology company that blends design and innovation for brands across Africa.
Together, the trio has created an ecosystem that connects technology education (Techminds), digital creativity (Supabros), and financial innovation (Plutowealth).
### **Collaboration and Growth**
Plutowealth's approach combines community learning and open-source development. Its projects are available publicly through the [Plutowealth GitHub organization](https://github.com/Plutowealth-org), where developers can explore or contribute to fintech tools in progress. The company also collaborates with Techminds Academy to host bootcamps focused on **financial technology education**, preparing the next wave of developers and innovators in Nigeria.
### **Looking Ahead**
While still in its early stages, Plutowealth is already building traction through partnerships and developer-driven innovation. The team plans to expand its educational outreach and integrate smart financial systems that will make budgeting, investing, and wealth tracking more accessible to young Africans. As the African fintech landscape continues to evolve, Plutowealth's story reflects the growing synergy between technology, creativity, and finance.
`,
}
