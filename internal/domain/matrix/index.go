package matrix

import "hrconsole/internal/domain/skills"

// Key addresses one matrix cell.
type Key struct {
	EmployeeID int64
	ItemID     int64
}

// Index pre-resolves items and assignments so that filtering and
// projection never scan the collections per cell.
type Index struct {
	skills       map[int64]skills.Skill
	certificates map[int64]skills.Certificate

	skillCells map[Key]skills.EmployeeSkill
	certCells  map[Key]skills.EmployeeCertificate

	skillsByEmployee map[int64][]skills.EmployeeSkill
	certsByEmployee  map[int64][]skills.EmployeeCertificate
}

func NewIndex(
	skillList []skills.Skill,
	certificateList []skills.Certificate,
	skillAssignments []skills.EmployeeSkill,
	certificateAssignments []skills.EmployeeCertificate,
) *Index {
	idx := &Index{
		skills:           make(map[int64]skills.Skill, len(skillList)),
		certificates:     make(map[int64]skills.Certificate, len(certificateList)),
		skillCells:       make(map[Key]skills.EmployeeSkill, len(skillAssignments)),
		certCells:        make(map[Key]skills.EmployeeCertificate, len(certificateAssignments)),
		skillsByEmployee: make(map[int64][]skills.EmployeeSkill),
		certsByEmployee:  make(map[int64][]skills.EmployeeCertificate),
	}
	for _, s := range skillList {
		idx.skills[s.ID] = s
	}
	for _, c := range certificateList {
		idx.certificates[c.ID] = c
	}
	for _, a := range skillAssignments {
		key := Key{EmployeeID: a.EmployeeID, ItemID: a.SkillID}
		if _, dup := idx.skillCells[key]; dup {
			continue
		}
		idx.skillCells[key] = a
		idx.skillsByEmployee[a.EmployeeID] = append(idx.skillsByEmployee[a.EmployeeID], a)
	}
	for _, a := range certificateAssignments {
		key := Key{EmployeeID: a.EmployeeID, ItemID: a.CertificateID}
		if _, dup := idx.certCells[key]; dup {
			continue
		}
		idx.certCells[key] = a
		idx.certsByEmployee[a.EmployeeID] = append(idx.certsByEmployee[a.EmployeeID], a)
	}
	return idx
}

func (idx *Index) Skill(id int64) (skills.Skill, bool) {
	s, ok := idx.skills[id]
	return s, ok
}

func (idx *Index) Certificate(id int64) (skills.Certificate, bool) {
	c, ok := idx.certificates[id]
	return c, ok
}

func (idx *Index) SkillAssignment(employeeID, skillID int64) (skills.EmployeeSkill, bool) {
	a, ok := idx.skillCells[Key{EmployeeID: employeeID, ItemID: skillID}]
	return a, ok
}

func (idx *Index) CertificateAssignment(employeeID, certificateID int64) (skills.EmployeeCertificate, bool) {
	a, ok := idx.certCells[Key{EmployeeID: employeeID, ItemID: certificateID}]
	return a, ok
}

func (idx *Index) SkillsOf(employeeID int64) []skills.EmployeeSkill {
	return idx.skillsByEmployee[employeeID]
}

func (idx *Index) CertificatesOf(employeeID int64) []skills.EmployeeCertificate {
	return idx.certsByEmployee[employeeID]
}
