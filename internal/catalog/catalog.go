// Package catalog holds the static game content used by the wizards: packs,
// traits, careers, aspirations and challenge templates.
package catalog

import "slices"

type PackKind string

const (
	PackBase      PackKind = "base"
	PackExpansion PackKind = "expansion"
	PackGame      PackKind = "game"
	PackStuff     PackKind = "stuff"
)

// BaseGame is the pack every player owns.
const BaseGame = "base"

type Pack struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Kind PackKind `json:"kind"`
}

// Item is a trait, career or aspiration together with the pack it ships in.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Pack     string `json:"pack"`
	Category string `json:"category,omitempty"`
}

var Packs = []Pack{
	{ID: BaseGame, Name: "Base Game", Kind: PackBase},
	{ID: "ep01", Name: "Get to Work", Kind: PackExpansion},
	{ID: "ep02", Name: "Get Together", Kind: PackExpansion},
	{ID: "ep03", Name: "City Living", Kind: PackExpansion},
	{ID: "ep04", Name: "Cats & Dogs", Kind: PackExpansion},
	{ID: "ep05", Name: "Seasons", Kind: PackExpansion},
	{ID: "ep06", Name: "Get Famous", Kind: PackExpansion},
	{ID: "ep07", Name: "Island Living", Kind: PackExpansion},
	{ID: "ep08", Name: "Discover University", Kind: PackExpansion},
	{ID: "ep09", Name: "Eco Lifestyle", Kind: PackExpansion},
	{ID: "ep10", Name: "Snowy Escape", Kind: PackExpansion},
	{ID: "ep11", Name: "Cottage Living", Kind: PackExpansion},
	{ID: "ep12", Name: "High School Years", Kind: PackExpansion},
	{ID: "ep13", Name: "Growing Together", Kind: PackExpansion},
	{ID: "gp01", Name: "Outdoor Retreat", Kind: PackGame},
	{ID: "gp02", Name: "Spa Day", Kind: PackGame},
	{ID: "gp04", Name: "Vampires", Kind: PackGame},
	{ID: "gp05", Name: "Parenthood", Kind: PackGame},
	{ID: "gp07", Name: "StrangerVille", Kind: PackGame},
	{ID: "gp08", Name: "Realm of Magic", Kind: PackGame},
	{ID: "sp01", Name: "Luxury Party Stuff", Kind: PackStuff},
	{ID: "sp04", Name: "Spooky Stuff", Kind: PackStuff},
	{ID: "sp13", Name: "Laundry Day Stuff", Kind: PackStuff},
}

var Traits = []Item{
	{ID: "active", Name: "Active", Pack: BaseGame, Category: "lifestyle"},
	{ID: "ambitious", Name: "Ambitious", Pack: BaseGame, Category: "emotional"},
	{ID: "art_lover", Name: "Art Lover", Pack: BaseGame, Category: "hobby"},
	{ID: "bookworm", Name: "Bookworm", Pack: BaseGame, Category: "hobby"},
	{ID: "cheerful", Name: "Cheerful", Pack: BaseGame, Category: "emotional"},
	{ID: "creative", Name: "Creative", Pack: BaseGame, Category: "hobby"},
	{ID: "evil", Name: "Evil", Pack: BaseGame, Category: "social"},
	{ID: "family_oriented", Name: "Family-Oriented", Pack: BaseGame, Category: "social"},
	{ID: "genius", Name: "Genius", Pack: BaseGame, Category: "hobby"},
	{ID: "good", Name: "Good", Pack: BaseGame, Category: "social"},
	{ID: "lazy", Name: "Lazy", Pack: BaseGame, Category: "lifestyle"},
	{ID: "loner", Name: "Loner", Pack: BaseGame, Category: "social"},
	{ID: "romantic", Name: "Romantic", Pack: BaseGame, Category: "social"},
	{ID: "perfectionist", Name: "Perfectionist", Pack: "ep01", Category: "emotional"},
	{ID: "squeamish", Name: "Squeamish", Pack: "ep01", Category: "lifestyle"},
	{ID: "dance_machine", Name: "Dance Machine", Pack: "ep02", Category: "hobby"},
	{ID: "insider", Name: "Insider", Pack: "ep02", Category: "social"},
	{ID: "foodie", Name: "Foodie", Pack: "ep03", Category: "hobby"},
	{ID: "cat_lover", Name: "Cat Lover", Pack: "ep04", Category: "lifestyle"},
	{ID: "dog_lover", Name: "Dog Lover", Pack: "ep04", Category: "lifestyle"},
	{ID: "self_absorbed", Name: "Self-Absorbed", Pack: "ep06", Category: "social"},
	{ID: "child_of_the_islands", Name: "Child of the Islands", Pack: "ep07", Category: "lifestyle"},
	{ID: "green_fiend", Name: "Green Fiend", Pack: "ep09", Category: "lifestyle"},
	{ID: "adventurous", Name: "Adventurous", Pack: "ep10", Category: "lifestyle"},
	{ID: "animal_enthusiast", Name: "Animal Enthusiast", Pack: "ep11", Category: "lifestyle"},
	{ID: "socially_awkward", Name: "Socially Awkward", Pack: "ep12", Category: "social"},
	{ID: "overachiever", Name: "Overachiever", Pack: "ep12", Category: "lifestyle"},
	{ID: "chased_by_death", Name: "Chased by Death", Pack: "gp04", Category: "lifestyle"},
	{ID: "glutton", Name: "Glutton", Pack: BaseGame, Category: "lifestyle"},
}

var Careers = []Item{
	{ID: "astronaut", Name: "Astronaut", Pack: BaseGame},
	{ID: "athlete", Name: "Athlete", Pack: BaseGame},
	{ID: "business", Name: "Business", Pack: BaseGame},
	{ID: "criminal", Name: "Criminal", Pack: BaseGame},
	{ID: "culinary", Name: "Culinary", Pack: BaseGame},
	{ID: "entertainer", Name: "Entertainer", Pack: BaseGame},
	{ID: "painter", Name: "Painter", Pack: BaseGame},
	{ID: "secret_agent", Name: "Secret Agent", Pack: BaseGame},
	{ID: "tech_guru", Name: "Tech Guru", Pack: BaseGame},
	{ID: "writer", Name: "Writer", Pack: BaseGame},
	{ID: "detective", Name: "Detective", Pack: "ep01"},
	{ID: "doctor", Name: "Doctor", Pack: "ep01"},
	{ID: "scientist", Name: "Scientist", Pack: "ep01"},
	{ID: "critic", Name: "Critic", Pack: "ep03"},
	{ID: "politician", Name: "Politician", Pack: "ep03"},
	{ID: "social_media", Name: "Social Media", Pack: "ep03"},
	{ID: "gardener", Name: "Gardener", Pack: "ep05"},
	{ID: "actor", Name: "Actor", Pack: "ep06"},
	{ID: "conservationist", Name: "Conservationist", Pack: "ep07"},
	{ID: "education", Name: "Education", Pack: "ep08"},
	{ID: "engineer", Name: "Engineer", Pack: "ep08"},
	{ID: "law", Name: "Law", Pack: "ep08"},
	{ID: "civil_designer", Name: "Civil Designer", Pack: "ep09"},
	{ID: "salaryperson", Name: "Salaryperson", Pack: "ep10"},
	{ID: "military", Name: "Military", Pack: "gp07"},
}

var Aspirations = []Item{
	{ID: "bodybuilder", Name: "Bodybuilder", Pack: BaseGame, Category: "athletic"},
	{ID: "painter_extraordinaire", Name: "Painter Extraordinaire", Pack: BaseGame, Category: "creativity"},
	{ID: "bestselling_author", Name: "Bestselling Author", Pack: BaseGame, Category: "creativity"},
	{ID: "big_happy_family", Name: "Big Happy Family", Pack: BaseGame, Category: "family"},
	{ID: "successful_lineage", Name: "Successful Lineage", Pack: BaseGame, Category: "family"},
	{ID: "fabulously_wealthy", Name: "Fabulously Wealthy", Pack: BaseGame, Category: "fortune"},
	{ID: "renaissance_sim", Name: "Renaissance Sim", Pack: BaseGame, Category: "knowledge"},
	{ID: "nerd_brain", Name: "Nerd Brain", Pack: BaseGame, Category: "knowledge"},
	{ID: "soulmate", Name: "Soulmate", Pack: BaseGame, Category: "love"},
	{ID: "serial_romantic", Name: "Serial Romantic", Pack: BaseGame, Category: "love"},
	{ID: "friend_of_the_world", Name: "Friend of the World", Pack: BaseGame, Category: "popularity"},
	{ID: "public_enemy", Name: "Public Enemy", Pack: BaseGame, Category: "deviance"},
	{ID: "master_chef", Name: "Master Chef", Pack: BaseGame, Category: "food"},
	{ID: "freelance_botanist", Name: "Freelance Botanist", Pack: BaseGame, Category: "nature"},
	{ID: "curator", Name: "Curator", Pack: BaseGame, Category: "nature"},
	{ID: "party_animal", Name: "Party Animal", Pack: "ep02", Category: "popularity"},
	{ID: "city_native", Name: "City Native", Pack: "ep03", Category: "location"},
	{ID: "friend_of_the_animals", Name: "Friend of the Animals", Pack: "ep04", Category: "nature"},
	{ID: "world_famous_celebrity", Name: "World-Famous Celebrity", Pack: "ep06", Category: "popularity"},
	{ID: "beach_life", Name: "Beach Life", Pack: "ep07", Category: "location"},
	{ID: "academic", Name: "Academic", Pack: "ep08", Category: "knowledge"},
	{ID: "eco_innovator", Name: "Eco Innovator", Pack: "ep09", Category: "nature"},
	{ID: "mt_komorebi_sightseer", Name: "Mt. Komorebi Sightseer", Pack: "ep10", Category: "location"},
	{ID: "country_caretaker", Name: "Country Caretaker", Pack: "ep11", Category: "nature"},
	{ID: "spellcraft_and_sorcery", Name: "Spellcraft & Sorcery", Pack: "gp08", Category: "knowledge"},
	{ID: "good_vampire", Name: "Good Vampire", Pack: "gp04", Category: "deviance"},
}

// Content is the catalog restricted to a set of owned packs.
type Content struct {
	Packs       []Pack `json:"packs"`
	Traits      []Item `json:"traits"`
	Careers     []Item `json:"careers"`
	Aspirations []Item `json:"aspirations"`
}

// Filter returns the content available with the given packs. Base game
// content is always included; unknown pack IDs are ignored.
func Filter(owned []string) Content {
	have := func(pack string) bool {
		return pack == BaseGame || slices.Contains(owned, pack)
	}
	keep := func(items []Item) []Item {
		out := make([]Item, 0, len(items))
		for _, it := range items {
			if have(it.Pack) {
				out = append(out, it)
			}
		}
		return out
	}

	packs := make([]Pack, 0, len(Packs))
	for _, p := range Packs {
		if have(p.ID) {
			packs = append(packs, p)
		}
	}
	return Content{
		Packs:       packs,
		Traits:      keep(Traits),
		Careers:     keep(Careers),
		Aspirations: keep(Aspirations),
	}
}

func find(items []Item, id string) (Item, bool) {
	i := slices.IndexFunc(items, func(it Item) bool { return it.ID == id })
	if i < 0 {
		return Item{}, false
	}
	return items[i], true
}

func TraitByID(id string) (Item, bool)      { return find(Traits, id) }
func CareerByID(id string) (Item, bool)     { return find(Careers, id) }
func AspirationByID(id string) (Item, bool) { return find(Aspirations, id) }

// PackByID reports whether id names a known pack.
func PackByID(id string) (Pack, bool) {
	i := slices.IndexFunc(Packs, func(p Pack) bool { return p.ID == id })
	if i < 0 {
		return Pack{}, false
	}
	return Packs[i], true
}
