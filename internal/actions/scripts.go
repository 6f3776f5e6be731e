package actions

// In-page functions. Each takes a single object argument.

const checkFieldScript = `({selector, checked}) => {
	const target = document.querySelector(selector);
	if (!target) {
		return Promise.reject(new Error('No element found'));
	}
	target.checked = checked;
	return Promise.resolve();
}`

const clearFieldScript = `({selector}) => {
	const target = document.querySelector(selector);
	if (!target) {
		return Promise.reject(new Error('No element found'));
	}
	target.value = '';
	target.dispatchEvent(new Event('input', {bubbles: true}));
	return Promise.resolve();
}`

const locationScript = `({property, expected, negated}) => {
	return (window.location[property] === expected) !== negated;
}`

const elementStateScript = `({selector, state}) => {
	const target = document.querySelector(selector);
	const visible = Boolean(target && (target.offsetWidth || target.offsetHeight || target.getClientRects().length));
	switch (state) {
		case 'added':
			return Boolean(target);
		case 'removed':
			return !target;
		case 'visible':
			return visible;
		case 'hidden':
			return !visible;
	}
	return false;
}`
