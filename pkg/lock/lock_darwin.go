package lock

func system() Locker {
	return Command{Name: "pmset", Args: []string{"displaysleepnow"}}
}
