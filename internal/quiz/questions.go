package quiz

const (
	QuestionGenres     = "genres"
	QuestionPlayStyle  = "play_style"
	QuestionGroupSize  = "group_size"
	QuestionExperience = "experience"
	QuestionGameNight  = "game_night"
	QuestionTableRole  = "table_role"
	QuestionNewGame    = "new_game"
)

// Genre option IDs double as event tags so preferences can match events.
var questions = []Question{
	{
		ID:     QuestionGenres,
		Step:   1,
		Prompt: "Which kinds of games do you enjoy?",
		Kind:   KindMulti,
		Options: []Option{
			{ID: "strategy", Label: "Strategy", Traits: map[string]int{Strategist: 2}},
			{ID: "party", Label: "Party games", Traits: map[string]int{Socializer: 2}},
			{ID: "cooperative", Label: "Cooperative", Traits: map[string]int{Socializer: 1, Explorer: 1}},
			{ID: "rpg", Label: "Role-playing", Traits: map[string]int{Storyteller: 2}},
			{ID: "card-games", Label: "Card games", Traits: map[string]int{Strategist: 1}},
			{ID: "deduction", Label: "Deduction & bluffing", Traits: map[string]int{Socializer: 1, Strategist: 1}},
			{ID: "family", Label: "Family games", Traits: map[string]int{Socializer: 1}},
			{ID: "wargames", Label: "Wargames", Traits: map[string]int{Strategist: 2}},
			{ID: "video-games", Label: "Video games", Traits: map[string]int{Explorer: 1}},
		},
	},
	{
		ID:     QuestionPlayStyle,
		Step:   2,
		Prompt: "How do you like to play?",
		Kind:   KindSingle,
		Options: []Option{
			{ID: "competitive", Label: "To win", Traits: map[string]int{Strategist: 2}},
			{ID: "casual", Label: "For fun, the score doesn't matter", Traits: map[string]int{Socializer: 2}},
			{ID: "immersive", Label: "To get lost in the story", Traits: map[string]int{Storyteller: 2}},
		},
	},
	{
		ID:     QuestionGroupSize,
		Step:   2,
		Prompt: "What group size feels best?",
		Kind:   KindSingle,
		Options: []Option{
			{ID: "small", Label: "2–3 players"},
			{ID: "medium", Label: "4–6 players", Traits: map[string]int{Socializer: 1}},
			{ID: "large", Label: "7 or more", Traits: map[string]int{Socializer: 2}},
		},
	},
	{
		ID:     QuestionExperience,
		Step:   3,
		Prompt: "How experienced are you?",
		Kind:   KindSingle,
		Options: []Option{
			{ID: "beginner", Label: "Just starting out", Traits: map[string]int{Explorer: 1}},
			{ID: "intermediate", Label: "I know my way around"},
			{ID: "veteran", Label: "I've played everything", Traits: map[string]int{Strategist: 1}},
		},
	},
	{
		ID:     QuestionGameNight,
		Step:   4,
		Prompt: "Your ideal game night is…",
		Kind:   KindSingle,
		Options: []Option{
			{ID: "long-campaign", Label: "A long campaign with a deep plot", Traits: map[string]int{Storyteller: 3}},
			{ID: "tournament", Label: "A tournament with a leaderboard", Traits: map[string]int{Strategist: 3}},
			{ID: "crowd", Label: "A crowd, snacks and lots of laughing", Traits: map[string]int{Socializer: 3}},
			{ID: "new-titles", Label: "Trying three games nobody has played", Traits: map[string]int{Explorer: 3}},
		},
	},
	{
		ID:     QuestionTableRole,
		Step:   4,
		Prompt: "At the table you are usually the one who…",
		Kind:   KindSingle,
		Options: []Option{
			{ID: "plans", Label: "plans five moves ahead", Traits: map[string]int{Strategist: 2}},
			{ID: "jokes", Label: "keeps everyone laughing", Traits: map[string]int{Socializer: 2}},
			{ID: "narrates", Label: "narrates what is happening", Traits: map[string]int{Storyteller: 2}},
			{ID: "reads-rules", Label: "reads the rulebook out loud", Traits: map[string]int{Explorer: 2}},
		},
	},
	{
		ID:     QuestionNewGame,
		Step:   5,
		Prompt: "When a new game hits the table…",
		Kind:   KindSingle,
		Options: []Option{
			{ID: "dive-in", Label: "I dive in and learn by playing", Traits: map[string]int{Explorer: 2}},
			{ID: "study", Label: "I study the strategy first", Traits: map[string]int{Strategist: 2}},
			{ID: "theme", Label: "I want to know the theme and lore", Traits: map[string]int{Storyteller: 2}},
			{ID: "teach", Label: "I help the others get started", Traits: map[string]int{Socializer: 2}},
		},
	},
}
