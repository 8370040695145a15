package seed

type Account struct {
	Email    string
	Username string
	Password string
	Bio      *string
	Image    *string
	Articles []Article
	Comments []Comment
}

type Article struct {
	Slug        string
	Title       string
	Description string
	Body        string
	Tags        []string
	FavoritedBy []string
}

// Comment targets an article by slug.
type Comment struct {
	Slug string
	Body string
}

func strPtr(s string) *string { return &s }

// DemoAccounts is the default data set loaded by cmd/seed.
var DemoAccounts = []Account{
	{
		Email:    "johndoe@realworld.io",
		Username: "johndoe",
		Password: "johndoe123",
		Bio:      strPtr("Full-stack developer who cares about small, readable services."),
		Articles: []Article{{
			Slug:        "how-to-learn-javascript-effectively",
			Title:       "How to Learn JavaScript Effectively",
			Description: "A study plan that goes from the basics to real projects",
			Body:        "Start with variables, functions, objects and arrays.\n\nThen build something small, like a todo list, and grow from there.\n\nFinally, find people to learn with.",
			Tags:        []string{"beginners", "javascript", "programming", "webdev"},
			FavoritedBy: []string{"mikewilson", "sarahchen"},
		}},
		Comments: []Comment{
			{Slug: "building-scalable-apis-with-nodejs", Body: "Connection pooling made a big difference for my API."},
			{Slug: "react-hooks-best-practices", Body: "The useEffect dependency section would have saved me hours."},
		},
	},
	{
		Email:    "janesmith@realworld.io",
		Username: "janesmith",
		Password: "janesmith123",
		Bio:      strPtr("Frontend developer focused on UI and modern CSS."),
		Articles: []Article{{
			Slug:        "react-hooks-best-practices",
			Title:       "React Hooks: Best Practices and Common Pitfalls",
			Description: "Patterns and anti-patterns for hooks",
			Body:        "List every dependency of useEffect.\n\nMove shared stateful logic into custom hooks.\n\nReach for useMemo only when a profile tells you to.",
			Tags:        []string{"frontend", "hooks", "javascript", "react"},
			FavoritedBy: []string{"johndoe", "sarahchen"},
		}},
		Comments: []Comment{
			{Slug: "introduction-to-machine-learning-for-developers", Body: "A practical introduction, exactly what I needed."},
			{Slug: "how-to-learn-javascript-effectively", Body: "This cleared up a lot of concepts for me."},
			{Slug: "building-scalable-apis-with-nodejs", Body: "Error handling is where I need to improve. Thanks!"},
		},
	},
	{
		Email:    "mikewilson@realworld.io",
		Username: "mikewilson",
		Password: "mikewilson123",
		Bio:      strPtr("Backend engineer working on scalable systems and automation."),
		Articles: []Article{{
			Slug:        "building-scalable-apis-with-nodejs",
			Title:       "Building Scalable APIs with Node.js",
			Description: "Architecture notes for robust backend services",
			Body:        "Use the HTTP status codes your clients expect.\n\nHandle errors in one middleware and log them.\n\nCache hot reads and pool your database connections.",
			Tags:        []string{"api", "architecture", "backend", "nodejs"},
			FavoritedBy: []string{"janesmith"},
		}},
		Comments: []Comment{
			{Slug: "introduction-to-machine-learning-for-developers", Body: "Data preprocessing really is most of the work."},
			{Slug: "how-to-learn-javascript-effectively", Body: "I built three projects with this approach and learned a lot."},
		},
	},
	{
		Email:    "sarahchen@realworld.io",
		Username: "sarahchen",
		Password: "sarahchen123",
		Bio:      strPtr("Data scientist turning data into decisions."),
		Articles: []Article{{
			Slug:        "introduction-to-machine-learning-for-developers",
			Title:       "Introduction to Machine Learning for Developers",
			Description: "ML concepts for working software developers",
			Body:        "Begin with supervised learning: classification and regression.\n\nscikit-learn is a friendly first library.\n\nExpect to spend most of your time cleaning data.",
			Tags:        []string{"ai", "datascience", "machinelearning", "python"},
			FavoritedBy: []string{"johndoe"},
		}},
		Comments: []Comment{
			{Slug: "react-hooks-best-practices", Body: "Custom hooks keep components so much cleaner."},
		},
	},
}
