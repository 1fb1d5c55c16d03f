package document

import (
	"maps"
	"slices"
)

// assignGroup is the only writer of the group registry and of element GroupID tags. It sets
// the membership of gid to members: listed elements are tagged with gid, former members not
// listed are untagged, and an empty list deletes the registry entry.
func (d *Document) assignGroup(gid string, members []string) {
	for _, id := range d.groups[gid] {
		if slices.Contains(members, id) {
			continue
		}
		if _, el := d.findAny(id); el != nil && el.GroupID == gid {
			el.GroupID = ""
		}
	}
	if len(members) == 0 {
		delete(d.groups, gid)
		return
	}
	d.groups[gid] = slices.Clone(members)
	for _, id := range members {
		if _, el := d.findAny(id); el != nil {
			el.GroupID = gid
		}
	}
}

// dropFromGroups removes id from every group, dissolving groups left with fewer than two
// members.
func (d *Document) dropFromGroups(id string) {
	for _, gid := range slices.Sorted(maps.Keys(d.groups)) {
		members := d.groups[gid]
		if !slices.Contains(members, id) {
			continue
		}
		rest := slices.DeleteFunc(slices.Clone(members), func(m string) bool { return m == id })
		if len(rest) < 2 {
			rest = nil
		}
		d.assignGroup(gid, rest)
	}
}

// GroupElements groups the listed elements of the active page under a fresh group id and
// commits. Ids not on the active page are ignored; fewer than two remaining ids is a no-op.
// Elements already in another group leave it first.
func (d *Document) GroupElements(ids []string) (string, bool) {
	p := d.pages[d.active]
	var members []string
	for _, id := range ids {
		if p.find(id) != nil && !slices.Contains(members, id) {
			members = append(members, id)
		}
	}
	if len(members) < 2 {
		return "", false
	}

	for _, id := range members {
		d.dropFromGroups(id)
	}
	gid := d.groupSeq.Next()
	for d.groups[gid] != nil {
		gid = d.groupSeq.Next()
	}
	d.assignGroup(gid, members)
	d.Commit()
	return gid, true
}

// UngroupElements clears the group tag of every member, deletes the group and commits.
func (d *Document) UngroupElements(gid string) bool {
	if _, ok := d.groups[gid]; !ok {
		return false
	}
	d.assignGroup(gid, nil)
	d.Commit()
	return true
}

// SelectGroup returns every member of the element's group, or just id when it is ungrouped.
func (d *Document) SelectGroup(id string) []string {
	_, el := d.findAny(id)
	if el == nil || el.GroupID == "" {
		return []string{id}
	}
	if members, ok := d.groups[el.GroupID]; ok {
		return slices.Clone(members)
	}
	return []string{id}
}

// Groups returns a copy of the group registry.
func (d *Document) Groups() map[string][]string { return cloneGroups(d.groups) }

// GroupMembers returns the members of a group.
func (d *Document) GroupMembers(gid string) ([]string, bool) {
	members, ok := d.groups[gid]
	return slices.Clone(members), ok
}

// reconcileGroups rebuilds the registry and tags from a loaded registry plus any tags found
// on elements. An element claimed by several groups stays in the first by group id; unknown
// ids are dropped and groups under two members are dissolved.
func (d *Document) reconcileGroups(loaded map[string][]string) {
	members := make(map[string][]string)
	owner := make(map[string]string)
	claim := func(gid, id string) {
		d.groupSeq.Observe(gid)
		if _, taken := owner[id]; taken {
			return
		}
		owner[id] = gid
		members[gid] = append(members[gid], id)
	}
	for _, gid := range slices.Sorted(maps.Keys(loaded)) {
		for _, id := range loaded[gid] {
			if _, el := d.findAny(id); el != nil {
				claim(gid, id)
			}
		}
	}
	for _, p := range d.pages {
		for _, el := range p.Elements {
			if el.GroupID != "" {
				claim(el.GroupID, el.ID)
			}
			el.GroupID = ""
		}
	}

	d.groups = make(map[string][]string)
	for _, gid := range slices.Sorted(maps.Keys(members)) {
		if ids := members[gid]; len(ids) >= 2 {
			d.assignGroup(gid, ids)
		}
	}
}
