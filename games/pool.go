package games

// WordEntry is a secret word and the hint that goes with it.
type WordEntry struct {
	Word string `json:"word"`
	Hint string `json:"hint"`
}

// Category groups word entries under a unique name.
type Category struct {
	Name    string      `json:"name"`
	Emoji   string      `json:"emoji"`
	Words   []WordEntry `json:"words"`
	Default bool        `json:"isDefault,omitempty"`
}

// WordPool is the catalog a round draws its content from.
type WordPool []Category

// Find returns the category with the given name.
func (p WordPool) Find(name string) (Category, bool) {
	for _, c := range p {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Words flattens the selected categories into one pool, in catalog order.
// Unknown names are ignored.
func (p WordPool) Words(selected []string) []WordEntry {
	want := make(map[string]bool, len(selected))
	for _, name := range selected {
		want[name] = true
	}

	var words []WordEntry
	for _, c := range p {
		if want[c.Name] {
			words = append(words, c.Words...)
		}
	}
	return words
}

// DefaultSelection lists the categories selected out of the box.
func (p WordPool) DefaultSelection() []string {
	var names []string
	for _, c := range p {
		if c.Default {
			names = append(names, c.Name)
		}
	}
	return names
}

func (p WordPool) clone() WordPool {
	out := make(WordPool, len(p))
	for i, c := range p {
		c.Words = append([]WordEntry(nil), c.Words...)
		out[i] = c
	}
	return out
}

// DefaultCategories returns a fresh copy of the built-in catalog.
func DefaultCategories() WordPool {
	return defaultCategories.clone()
}

var defaultCategories = WordPool{
	{Name: "Food", Emoji: "🍕", Default: true, Words: []WordEntry{
		{"Pizza", "Italian"},
		{"Sushi", "Raw"},
		{"Pancake", "Breakfast"},
		{"Apple", "Fruit"},
		{"Chocolate", "Sweet"},
		{"Cheese", "Dairy"},
		{"Soup", "Spoon"},
		{"Popcorn", "Cinema"},
	}},
	{Name: "Animals", Emoji: "🐾", Default: true, Words: []WordEntry{
		{"Dog", "Animal"},
		{"Penguin", "Ice"},
		{"Giraffe", "Tall"},
		{"Octopus", "Tentacles"},
		{"Owl", "Night"},
		{"Kangaroo", "Jump"},
		{"Snail", "Slow"},
		{"Bee", "Honey"},
	}},
	{Name: "Places", Emoji: "🗺️", Default: true, Words: []WordEntry{
		{"Beach", "Sand"},
		{"Airport", "Travel"},
		{"Hospital", "Doctor"},
		{"Library", "Quiet"},
		{"Castle", "King"},
		{"Supermarket", "Groceries"},
		{"Zoo", "Cages"},
		{"Cinema", "Screen"},
	}},
	{Name: "Jobs", Emoji: "💼", Words: []WordEntry{
		{"Firefighter", "Hose"},
		{"Teacher", "Classroom"},
		{"Pilot", "Cockpit"},
		{"Chef", "Kitchen"},
		{"Astronaut", "Space"},
		{"Plumber", "Pipes"},
		{"Dentist", "Teeth"},
		{"Farmer", "Tractor"},
	}},
	{Name: "Sports", Emoji: "⚽", Words: []WordEntry{
		{"Football", "Goal"},
		{"Tennis", "Racket"},
		{"Swimming", "Pool"},
		{"Skiing", "Snow"},
		{"Boxing", "Gloves"},
		{"Golf", "Hole"},
		{"Cycling", "Wheels"},
		{"Chess", "Checkmate"},
	}},
	{Name: "Objects", Emoji: "🧸", Words: []WordEntry{
		{"Umbrella", "Rain"},
		{"Scissors", "Cut"},
		{"Candle", "Wax"},
		{"Mirror", "Reflection"},
		{"Clock", "Time"},
		{"Ladder", "Climb"},
		{"Pillow", "Sleep"},
		{"Key", "Lock"},
	}},
}
