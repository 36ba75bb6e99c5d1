package tracker

import (
	"github.com/trezcool/homeschool/core/records"
	localstore "github.com/trezcool/homeschool/storage/local"
)

func (svc *Service) GetJournalEntry(id string) (records.JournalEntry, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return records.GetJournalEntry(svc.cols.Journal, id)
}

func (svc *Service) AddJournalEntry(ne records.NewJournalEntry) (records.JournalEntry, error) {
	if err := svc.validateStruct(&ne); err != nil {
		return records.JournalEntry{}, err
	}
	e := ne.Entry(records.NewJournalEntryID())

	svc.mu.Lock()
	defer svc.mu.Unlock()
	cols := svc.cols
	cols.Journal = records.AddJournalEntry(cols.Journal, e)
	svc.commit(cols, localstore.KeyJournal)
	return e, nil
}

func (svc *Service) UpdateJournalEntry(id string, ne records.NewJournalEntry) (records.JournalEntry, error) {
	if err := svc.validateStruct(&ne); err != nil {
		return records.JournalEntry{}, err
	}
	e := ne.Entry(id)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	list, err := records.UpdateJournalEntry(svc.cols.Journal, e)
	if err != nil {
		return records.JournalEntry{}, err
	}
	cols := svc.cols
	cols.Journal = list
	svc.commit(cols, localstore.KeyJournal)
	return e, nil
}

func (svc *Service) DeleteJournalEntry(id string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	list, err := records.DeleteJournalEntry(svc.cols.Journal, id)
	if err != nil {
		return err
	}
	cols := svc.cols
	cols.Journal = list
	svc.commit(cols, localstore.KeyJournal)
	return nil
}
