package handler

import (
	"net/http"
	"time"

	shoppingdomain "household-finance/internal/domain/shopping"
)

type createListRequest struct {
	Name string `json:"name"`
}

type addItemRequest struct {
	Name     string   `json:"name"`
	Unit     string   `json:"unit"`
	Quantity *float64 `json:"quantity"`
}

type updateItemRequest struct {
	IsBought *bool    `json:"isBought"`
	Quantity *float64 `json:"quantity"`
}

type shoppingItemResponse struct {
	ID          string    `json:"id"`
	ListID      string    `json:"listId"`
	Name        string    `json:"name"`
	Unit        string    `json:"unit"`
	Quantity    float64   `json:"quantity"`
	IsBought    bool      `json:"isBought"`
	AddedBy     *string   `json:"addedBy"`
	AddedByName *string   `json:"addedByName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type shoppingListResponse struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Status    string                 `json:"status"`
	CreatedBy string                 `json:"createdBy"`
	CreatedAt time.Time              `json:"createdAt"`
	Items     []shoppingItemResponse `json:"items"`
}

func (h *Handlers) ListShopping(w http.ResponseWriter, r *http.Request) {
	_, membership, ok := h.member(w, r, "shopping.List")
	if !ok {
		return
	}

	lists, err := h.Shopping.ListLists(r.Context(), membership.HouseholdID)
	if err != nil {
		h.fail(w, r, "shopping.List", err, "household_id", membership.HouseholdID)
		return
	}

	resp := make([]shoppingListResponse, 0, len(lists))
	for i := range lists {
		list := newShoppingListResponse(&lists[i].List)
		for _, item := range lists[i].Items {
			entry := newShoppingItemResponse(&item.Item)
			entry.AddedByName = item.AddedByName
			list.Items = append(list.Items, entry)
		}
		resp = append(resp, list)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateShoppingList(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "shopping.CreateList")
	if !ok {
		return
	}

	var req createListRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	list, err := h.Shopping.CreateList(r.Context(), user.ID, membership.HouseholdID, req.Name)
	if err != nil {
		h.fail(w, r, "shopping.CreateList", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, newShoppingListResponse(list))
}

func (h *Handlers) DeleteShoppingList(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "shopping.DeleteList")
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Shopping.DeleteList(r.Context(), user.ID, membership.HouseholdID, id); err != nil {
		h.fail(w, r, "shopping.DeleteList", err, "user_id", user.ID, "list_id", id)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "shopping list deleted"})
}

func (h *Handlers) AddShoppingItem(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "shopping.AddItem")
	if !ok {
		return
	}

	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	listID, ok := idParam(w, r, "listId")
	if !ok {
		return
	}

	item, err := h.Shopping.AddItem(r.Context(), user.ID, membership.HouseholdID, listID, shoppingdomain.AddItemInput{
		Name:     req.Name,
		Unit:     req.Unit,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.fail(w, r, "shopping.AddItem", err, "user_id", user.ID, "list_id", listID)
		return
	}

	writeJSON(w, http.StatusCreated, newShoppingItemResponse(item))
}

func (h *Handlers) UpdateShoppingItem(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "shopping.UpdateItem")
	if !ok {
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	item, err := h.Shopping.UpdateItem(r.Context(), user.ID, membership.HouseholdID, id, shoppingdomain.UpdateItemInput{
		Purchased: req.IsBought,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.fail(w, r, "shopping.UpdateItem", err, "user_id", user.ID, "item_id", id)
		return
	}

	writeJSON(w, http.StatusOK, newShoppingItemResponse(item))
}

func (h *Handlers) DeleteShoppingItem(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "shopping.DeleteItem")
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Shopping.DeleteItem(r.Context(), user.ID, membership.HouseholdID, id); err != nil {
		h.fail(w, r, "shopping.DeleteItem", err, "user_id", user.ID, "item_id", id)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "item deleted"})
}

func newShoppingListResponse(list *shoppingdomain.List) shoppingListResponse {
	return shoppingListResponse{
		ID:        list.ID,
		Name:      list.Name,
		Status:    list.Status,
		CreatedBy: list.CreatedBy,
		CreatedAt: list.CreatedAt,
		Items:     []shoppingItemResponse{},
	}
}

func newShoppingItemResponse(item *shoppingdomain.Item) shoppingItemResponse {
	return shoppingItemResponse{
		ID:        item.ID,
		ListID:    item.ListID,
		Name:      item.Name,
		Unit:      item.Unit,
		Quantity:  item.Quantity,
		IsBought:  item.Purchased,
		AddedBy:   item.AddedBy,
		CreatedAt: item.CreatedAt,
	}
}
