// Package roster holds the static character catalog the draft runs over.
// The catalog is fixed at build time; the coordinator only cares about id
// validity, but the full records are served to clients for rendering.
package roster

type Character struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Rarity  int    `json:"rarity"`
	Element string `json:"element"`
	Weapon  string `json:"weapon"`
}

var Characters = []Character{
	{ID: "jiyan", Name: "Jiyan", Rarity: 5, Element: "Aero", Weapon: "Broadblade"},
	{ID: "yinlin", Name: "Yinlin", Rarity: 5, Element: "Electro", Weapon: "Rectifier"},
	{ID: "calcharo", Name: "Calcharo", Rarity: 5, Element: "Electro", Weapon: "Broadblade"},
	{ID: "verina", Name: "Verina", Rarity: 5, Element: "Spectro", Weapon: "Rectifier"},
	{ID: "jianxin", Name: "Jianxin", Rarity: 5, Element: "Aero", Weapon: "Gauntlets"},
	{ID: "lingyang", Name: "Lingyang", Rarity: 5, Element: "Glacio", Weapon: "Gauntlets"},
	{ID: "encore", Name: "Encore", Rarity: 5, Element: "Fusion", Weapon: "Rectifier"},
	{ID: "rover_spectro", Name: "Rover (Spectro)", Rarity: 5, Element: "Spectro", Weapon: "Sword"},
	{ID: "rover_havoc", Name: "Rover (Havoc)", Rarity: 5, Element: "Havoc", Weapon: "Sword"},
	{ID: "baizhi", Name: "Baizhi", Rarity: 4, Element: "Glacio", Weapon: "Rectifier"},
	{ID: "sanhua", Name: "Sanhua", Rarity: 4, Element: "Glacio", Weapon: "Sword"},
	{ID: "yangyang", Name: "Yangyang", Rarity: 4, Element: "Aero", Weapon: "Sword"},
	{ID: "chixia", Name: "Chixia", Rarity: 4, Element: "Fusion", Weapon: "Pistols"},
	{ID: "danjin", Name: "Danjin", Rarity: 4, Element: "Havoc", Weapon: "Sword"},
	{ID: "mortefi", Name: "Mortefi", Rarity: 4, Element: "Fusion", Weapon: "Pistols"},
	{ID: "taoqi", Name: "Taoqi", Rarity: 4, Element: "Havoc", Weapon: "Broadblade"},
	{ID: "yuanwu", Name: "Yuanwu", Rarity: 4, Element: "Electro", Weapon: "Gauntlets"},
	{ID: "aalto", Name: "Aalto", Rarity: 4, Element: "Aero", Weapon: "Pistols"},
}

var byID = func() map[string]Character {
	m := make(map[string]Character, len(Characters))
	for _, c := range Characters {
		m[c.ID] = c
	}
	return m
}()

func IsValid(id string) bool {
	_, ok := byID[id]
	return ok
}

// IDs returns every catalog id in declaration order.
func IDs() []string {
	ids := make([]string, len(Characters))
	for i, c := range Characters {
		ids[i] = c.ID
	}
	return ids
}
