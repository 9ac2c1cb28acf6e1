package task

// SingleGroupTitle is the title of the group holding non-recurring tasks.
const SingleGroupTitle = "Single Tasks"

const singleGroupKey = "single"

// Group is a display group of tasks: one recurring series, or all single
// tasks together.
type Group struct {
	Key       string
	Title     string
	Recurring *Recurring
	Tasks     []Task
}

// Completed returns how many tasks in the group are completed.
func (g Group) Completed() int {
	n := 0
	for _, t := range g.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// GroupTasks groups tasks by series, keeping the order in which each group
// first appears and the input order within a group. Recurring records written
// without a series id are grouped by name.
func GroupTasks(tasks []Task) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, t := range tasks {
		key, title := groupKey(t)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key, Title: title, Recurring: t.Recurring})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

func groupKey(t Task) (key, title string) {
	if id := t.SeriesID(); id != "" {
		return "series:" + id, t.Name
	}
	if t.IsRecurring() {
		return "name:" + t.Name, t.Name
	}
	return singleGroupKey, SingleGroupTitle
}
