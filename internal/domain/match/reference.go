package match

type Patch struct {
	ID   int
	Name string
	Date string
}

type Hero struct {
	ID            int
	LocalizedName string
}

// ReferenceTables holds the id to name lookups used during normalization.
type ReferenceTables struct {
	Patches      map[int]string
	Heroes       map[int]string
	PatchList    []Patch
	CurrentPatch string
}

// NewReferenceTables indexes the patch and hero lists. The current patch is
// the last entry of the patch list, which the API returns in release order.
func NewReferenceTables(patches []Patch, heroes []Hero) ReferenceTables {
	out := ReferenceTables{
		Patches:   make(map[int]string, len(patches)),
		Heroes:    make(map[int]string, len(heroes)),
		PatchList: append([]Patch(nil), patches...),
	}
	for _, p := range patches {
		out.Patches[p.ID] = p.Name
	}
	for _, h := range heroes {
		out.Heroes[h.ID] = h.LocalizedName
	}
	if len(patches) > 0 {
		out.CurrentPatch = patches[len(patches)-1].Name
	}
	return out
}

func (r ReferenceTables) PatchName(id int) *string {
	return lookupName(r.Patches, id)
}

func (r ReferenceTables) HeroName(id int) *string {
	return lookupName(r.Heroes, id)
}

func lookupName(table map[int]string, id int) *string {
	name, ok := table[id]
	if !ok {
		return nil
	}
	return &name
}
