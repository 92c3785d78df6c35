package options

import (
	"fmt"
	"strings"
)

type Party string

// PartyEra groups parties the way the directory's own option list does.
type PartyEra int

const (
	EraCurrent PartyEra = iota
	EraHistorical
	// EraErrata holds near-duplicates that exist only because of data entry errors in the
	// directory. They are kept because searching by them is the only way to find the affected rows.
	EraErrata
)

const (
	Democrat    Party = "Democrat"
	Independent Party = "Independent"
	Republican  Party = "Republican"

	AntiJacksonianErrata     Party = "Anti Jacksonian"
	AntiAdministrationErrata Party = "Anti-administration"
	CrawfordRepublicans      Party = "Crawford Republicans"
	DemocratFarmLabor        Party = "Democrat-Farm Labor"
	DemocratSemiRepublican   Party = "Democrat;Republican"
	ProAdministrationErrata  Party = "Pro-administration"

	Adams                   Party = "Adams"
	AdamsRepublican         Party = "Adams Republican"
	AdamsClayFederalist     Party = "Adams-Clay Federalist"
	AdamsClayRepublican     Party = "Adams-Clay Republican"
	Alliance                Party = "Alliance"
	American                Party = "American"
	AmericanKnowNothing     Party = "American (Know-Nothing)"
	AmericanLaborite        Party = "American Laborite"
	AmericanParty           Party = "American Party"
	AntiAdministration      Party = "Anti-Administration"
	AntiDemocrat            Party = "Anti-Democrat"
	AntiJacksonian          Party = "Anti-Jacksonian"
	AntiLecomptonDemocrat   Party = "Anti-Lecompton Democrat"
	AntiMasonic             Party = "Anti-Masonic"
	AntiMonopolist          Party = "Anti-Monopolist"
	Coalitionist            Party = "Coalitionist"
	Conservative            Party = "Conservative"
	ConservativeRepublican  Party = "Conservative Republican"
	ConstitutionalUnionist  Party = "Constitutional Unionist"
	CrawfordFederalist      Party = "Crawford Federalist"
	CrawfordRepublican      Party = "Crawford Republican"
	DemocratFarmerLabor     Party = "Democrat Farmer Labor"
	DemocratLiberal         Party = "Democrat-Liberal"
	DemocratIndependent     Party = "Democrat/Independent"
	DemocratRepublican      Party = "Democrat/Republican"
	DemocraticRepublican    Party = "Democratic Republican"
	DemocraticAndUnionLabor Party = "Democratic and Union Labor"
	FarmerLaborite          Party = "Farmer Laborite"
	Federalist              Party = "Federalist"
	FreeSilver              Party = "Free Silver"
	FreeSoil                Party = "Free Soil"
	FreeSoiler              Party = "Free Soiler"
	Greenbacker             Party = "Greenbacker"
	HomeRule                Party = "Home Rule"
	IndependencePartyMinn   Party = "Independence Party (Minnesota)"
	IndependentDemocrat     Party = "Independent Democrat"
	IndependentRepublican   Party = "Independent Republican"
	IndependentWhig         Party = "Independent Whig"
	Jackson                 Party = "Jackson"
	JacksonDemocrat         Party = "Jackson Democrat"
	JacksonFederalist       Party = "Jackson Federalist"
	JacksonRepublican       Party = "Jackson Republican"
	Jacksonian              Party = "Jacksonian"
	JacksonianRepublican    Party = "Jacksonian Republican"
	Labor                   Party = "Labor"
	LawAndOrder             Party = "Law and Order"
	Liberal                 Party = "Liberal"
	LiberalRepublican       Party = "Liberal Republican"
	Liberty                 Party = "Liberty"
	NoParty                 Party = "NA"
	Nacionalista            Party = "Nacionalista"
	National                Party = "National"
	NationalRepublican      Party = "National Republican"
	NewProgressive          Party = "New Progressive"
	Nonpartisan             Party = "Nonpartisan"
	Nullifier               Party = "Nullifier"
	Opposition              Party = "Opposition"
	OppositionParty         Party = "Opposition Party"
	Populist                Party = "Populist"
	ProAdministration       Party = "Pro-Administration"
	Progresista             Party = "Progresista"
	Progressive             Party = "Progressive"
	ProgressiveRepublican   Party = "Progressive Republican"
	Prohibitionist          Party = "Prohibitionist"
	Readjuster              Party = "Readjuster"
	SilverRepublican        Party = "Silver Republican"
	Socialist               Party = "Socialist"
	StateRightsDemocrat     Party = "State Rights Democrat"
	StatesRights            Party = "States Rights"
	StatesRightsDemocrat    Party = "States Rights Democrat"
	StatesRightsWhig        Party = "States-Rights Whig"
	UnconditionalUnionist   Party = "Unconditional Unionist"
	Union                   Party = "Union"
	UnionLabor              Party = "Union Labor"
	UnionRepublican         Party = "Union Republican"
	Unionist                Party = "Unionist"
	Unknown                 Party = "Unknown"
	VanBurenDemocrat        Party = "Van Buren Democrat"
	Whig                    Party = "Whig"
)

var partyEras = map[Party]PartyEra{
	Democrat:    EraCurrent,
	Independent: EraCurrent,
	Republican:  EraCurrent,

	AntiJacksonianErrata:     EraErrata,
	AntiAdministrationErrata: EraErrata,
	CrawfordRepublicans:      EraErrata,
	DemocratFarmLabor:        EraErrata,
	DemocratSemiRepublican:   EraErrata,
	ProAdministrationErrata:  EraErrata,

	Adams:                   EraHistorical,
	AdamsRepublican:         EraHistorical,
	AdamsClayFederalist:     EraHistorical,
	AdamsClayRepublican:     EraHistorical,
	Alliance:                EraHistorical,
	American:                EraHistorical,
	AmericanKnowNothing:     EraHistorical,
	AmericanLaborite:        EraHistorical,
	AmericanParty:           EraHistorical,
	AntiAdministration:      EraHistorical,
	AntiDemocrat:            EraHistorical,
	AntiJacksonian:          EraHistorical,
	AntiLecomptonDemocrat:   EraHistorical,
	AntiMasonic:             EraHistorical,
	AntiMonopolist:          EraHistorical,
	Coalitionist:            EraHistorical,
	Conservative:            EraHistorical,
	ConservativeRepublican:  EraHistorical,
	ConstitutionalUnionist:  EraHistorical,
	CrawfordFederalist:      EraHistorical,
	CrawfordRepublican:      EraHistorical,
	DemocratFarmerLabor:     EraHistorical,
	DemocratLiberal:         EraHistorical,
	DemocratIndependent:     EraHistorical,
	DemocratRepublican:      EraHistorical,
	DemocraticRepublican:    EraHistorical,
	DemocraticAndUnionLabor: EraHistorical,
	FarmerLaborite:          EraHistorical,
	Federalist:              EraHistorical,
	FreeSilver:              EraHistorical,
	FreeSoil:                EraHistorical,
	FreeSoiler:              EraHistorical,
	Greenbacker:             EraHistorical,
	HomeRule:                EraHistorical,
	IndependencePartyMinn:   EraHistorical,
	IndependentDemocrat:     EraHistorical,
	IndependentRepublican:   EraHistorical,
	IndependentWhig:         EraHistorical,
	Jackson:                 EraHistorical,
	JacksonDemocrat:         EraHistorical,
	JacksonFederalist:       EraHistorical,
	JacksonRepublican:       EraHistorical,
	Jacksonian:              EraHistorical,
	JacksonianRepublican:    EraHistorical,
	Labor:                   EraHistorical,
	LawAndOrder:             EraHistorical,
	Liberal:                 EraHistorical,
	LiberalRepublican:       EraHistorical,
	Liberty:                 EraHistorical,
	NoParty:                 EraHistorical,
	Nacionalista:            EraHistorical,
	National:                EraHistorical,
	NationalRepublican:      EraHistorical,
	NewProgressive:          EraHistorical,
	Nonpartisan:             EraHistorical,
	Nullifier:               EraHistorical,
	Opposition:              EraHistorical,
	OppositionParty:         EraHistorical,
	Populist:                EraHistorical,
	ProAdministration:       EraHistorical,
	Progresista:             EraHistorical,
	Progressive:             EraHistorical,
	ProgressiveRepublican:   EraHistorical,
	Prohibitionist:          EraHistorical,
	Readjuster:              EraHistorical,
	SilverRepublican:        EraHistorical,
	Socialist:               EraHistorical,
	StateRightsDemocrat:     EraHistorical,
	StatesRights:            EraHistorical,
	StatesRightsDemocrat:    EraHistorical,
	StatesRightsWhig:        EraHistorical,
	UnconditionalUnionist:   EraHistorical,
	Union:                   EraHistorical,
	UnionLabor:              EraHistorical,
	UnionRepublican:         EraHistorical,
	Unionist:                EraHistorical,
	Unknown:                 EraHistorical,
	VanBurenDemocrat:        EraHistorical,
	Whig:                    EraHistorical,
}

func (p Party) Valid() bool {
	_, ok := partyEras[p]
	return ok
}

// Era panics on an invalid party.
func (p Party) Era() PartyEra {
	era, ok := partyEras[p]
	if !ok {
		panic(fmt.Sprintf("era of unknown party %q", string(p)))
	}
	return era
}

func (p Party) String() string {
	return string(p)
}

// PartiesIn lists the parties of an era in no particular order.
func PartiesIn(era PartyEra) []Party {
	var out []Party
	for p, e := range partyEras {
		if e == era {
			out = append(out, p)
		}
	}
	return out
}

// ParseParty prefers an exact match, since a few errata differ from a real party only by case.
func ParseParty(s string) (Party, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if p := Party(s); p.Valid() {
		return p, nil
	}
	var found Party
	for p := range partyEras {
		if !strings.EqualFold(s, string(p)) {
			continue
		}
		// deterministic pick among case-only collisions
		if found == "" || p < found {
			found = p
		}
	}
	if found == "" {
		return "", fmt.Errorf("unknown party %q", s)
	}
	return found, nil
}

var partyCodes = map[string]Party{
	"R":  Republican,
	"D":  Democrat,
	"I":  Independent,
	"ID": IndependentDemocrat,
}

// PartyFromCode maps the one or two letter party codes structured sources use.
func PartyFromCode(code string) (Party, bool) {
	p, ok := partyCodes[strings.ToUpper(strings.TrimSpace(code))]
	return p, ok
}
